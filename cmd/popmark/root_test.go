package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/popmark/internal/model"
)

// cli runs commands against a private config and data file.
type cli struct {
	t      *testing.T
	dir    string
	config string
	opened []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := map[string]any{
		"backend":      "file",
		"dataFile":     filepath.Join(dir, "popmark.json"),
		"logFile":      filepath.Join(dir, "popmark.log"),
		"logLevel":     "error",
		"expandPolicy": "all",
	}
	data, err := json.Marshal(cfg)
	assert.NilError(t, err)
	path := filepath.Join(dir, "config.json")
	assert.NilError(t, os.WriteFile(path, data, 0o644))
	return &cli{t: t, dir: dir, config: path}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	o := &options{openURL: func(url string) error {
		c.opened = append(c.opened, url)
		return nil
	}}
	cmd := newRootCmd(o)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	assert.NilError(c.t, err, "popmark %s", strings.Join(args, " "))
	return out
}

func (c *cli) list() []model.Bookmark {
	c.t.Helper()
	var bookmarks []model.Bookmark
	assert.NilError(c.t, json.Unmarshal([]byte(c.mustRun("ls", "--json")), &bookmarks))
	return bookmarks
}

func TestAdd_DefaultsToQuickAddFolder(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("add", "example.com", "--title", "Example", "--no-fetch")
	assert.Check(t, is.Contains(out, "Added Example ("))
	assert.Check(t, is.Contains(out, "to Read Later"))

	// The folder is reused, not created twice.
	c.mustRun("add", "example.org", "--no-fetch")
	assert.Check(t, is.Equal(strings.Count(c.mustRun("folder", "tree"), "Read Later"), 1))

	bookmarks := c.list()
	assert.Assert(t, is.Len(bookmarks, 2))
	assert.Check(t, is.Equal(bookmarks[0].URL, "https://example.com"))
	assert.Check(t, is.Equal(bookmarks[0].Favicon, "https://example.com/favicon.ico"))
	assert.Check(t, is.Equal(bookmarks[1].Title, "https://example.org"))
}

func TestAdd_FolderTagsAndFavorite(t *testing.T) {
	c := newCLI(t)
	c.mustRun("folder", "add", "Dev")
	c.mustRun("folder", "add", "Go", "--parent", "Dev")

	out := c.mustRun("add", "https://go.dev", "--title", "Go", "--folder", "Dev/Go",
		"--tags", "lang, docs", "--fav", "--no-fetch")
	assert.Check(t, is.Contains(out, "to Dev / Go"))

	assert.Check(t, is.Equal(c.mustRun("tags"), "docs\nlang\n"))

	var favs []model.Bookmark
	assert.NilError(t, json.Unmarshal([]byte(c.mustRun("ls", "--favorites", "--json")), &favs))
	assert.Assert(t, is.Len(favs, 1))
	assert.Check(t, is.DeepEqual(favs[0].Tags, []string{"lang", "docs"}))
}

func TestAdd_UnknownFolder(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("add", "example.com", "--folder", "Nope", "--no-fetch")
	assert.Check(t, is.ErrorIs(err, model.ErrFolderNotFound))
}

func TestAdd_FetchesTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Fetched Page</title></head></html>`))
	}))
	defer srv.Close()

	c := newCLI(t)
	out := c.mustRun("add", srv.URL)
	assert.Check(t, is.Contains(out, "Added Fetched Page"))
}

func TestRmAndFav_ByPrefix(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "example.com", "--title", "Example", "--no-fetch")
	id := c.list()[0].ID

	assert.Check(t, is.Equal(c.mustRun("fav", id[:6]), "★ Example\n"))
	assert.Check(t, is.Equal(c.mustRun("fav", id), "☆ Example\n"))

	assert.Check(t, is.Equal(c.mustRun("rm", id[:6]), "Deleted Example\n"))
	assert.Check(t, is.Len(c.list(), 0))

	_, err := c.run("rm", id)
	assert.Check(t, is.ErrorIs(err, model.ErrBookmarkNotFound))
}

func TestLs_Filters(t *testing.T) {
	c := newCLI(t)
	c.mustRun("folder", "add", "Dev")
	c.mustRun("folder", "add", "News")
	c.mustRun("add", "github.com", "--title", "GitHub", "--folder", "Dev", "--tags", "code", "--no-fetch")
	c.mustRun("add", "news.ycombinator.com", "--title", "Hacker News", "--folder", "News", "--no-fetch")

	out := c.mustRun("ls")
	assert.Check(t, is.Contains(out, "GitHub"))
	assert.Check(t, is.Contains(out, "Hacker News"))

	out = c.mustRun("ls", "--folder", "News")
	assert.Check(t, !strings.Contains(out, "GitHub"))
	assert.Check(t, is.Contains(out, "Hacker News"))

	out = c.mustRun("ls", "--tag", "code")
	assert.Check(t, is.Contains(out, "GitHub"))
	assert.Check(t, !strings.Contains(out, "Hacker News"))

	out = c.mustRun("ls", "-s", "hacker")
	assert.Check(t, is.Contains(out, "Hacker News"))
	assert.Check(t, !strings.Contains(out, "GitHub"))
}

func TestFolder_TreeMoveAndDelete(t *testing.T) {
	c := newCLI(t)
	c.mustRun("folder", "add", "Dev")
	c.mustRun("folder", "add", "Go", "--parent", "Dev")
	c.mustRun("add", "go.dev", "--title", "Go", "--folder", "Go", "--no-fetch")

	out := c.mustRun("folder", "tree")
	assert.Check(t, is.Contains(out, "Dev (0)"))
	assert.Check(t, is.Contains(out, "\n  Go (1)"))

	_, err := c.run("folder", "mv", "Dev", "--parent", "Go")
	assert.Check(t, is.ErrorIs(err, model.ErrFolderCycle))

	_, err = c.run("folder", "mv", "Go")
	assert.Check(t, is.ErrorContains(err, "--parent or --root"))

	assert.Check(t, is.Equal(c.mustRun("folder", "mv", "Dev/Go", "--root"), "Moved to Go\n"))
	assert.Check(t, strings.HasPrefix(c.mustRun("folder", "tree"), "Dev (0)"))

	c.mustRun("folder", "mv", "Go", "--parent", "Dev")
	out = c.mustRun("folder", "rm", "Dev", "--cascade")
	assert.Check(t, is.Equal(out, "Deleted Dev (2 folders, 1 bookmarks removed)\n"))
	assert.Check(t, is.Equal(c.mustRun("folder", "tree"), ""))
	assert.Check(t, is.Len(c.list(), 0))
}

func TestFolder_RmKeepOnlyRemovesFolder(t *testing.T) {
	c := newCLI(t)
	c.mustRun("folder", "add", "Dev")
	c.mustRun("folder", "add", "Go", "--parent", "Dev")
	c.mustRun("add", "go.dev", "--title", "Go", "--folder", "Dev", "--no-fetch")

	out := c.mustRun("folder", "rm", "Dev", "--keep")
	assert.Check(t, is.Equal(out, "Deleted Dev (1 folders, 0 bookmarks removed)\n"))
	assert.Check(t, is.Len(c.list(), 1))

	// The child is still addressable by name.
	assert.Check(t, is.Equal(c.mustRun("folder", "rm", "Go"), "Deleted Go (1 folders, 0 bookmarks removed)\n"))

	_, err := c.run("folder", "rm", "Go", "--keep", "--cascade")
	assert.Check(t, is.ErrorContains(err, "mutually exclusive"))
}

func TestFolder_AddValidation(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("folder", "add", "  ")
	assert.Check(t, is.ErrorContains(err, "Folder name is required"))
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newCLI(t)
	src.mustRun("folder", "add", "Dev")
	src.mustRun("add", "github.com", "--title", "GitHub", "--folder", "Dev", "--no-fetch")

	file := filepath.Join(src.dir, "out", "export.html")
	out := src.mustRun("export", file)
	assert.Check(t, is.Equal(out, "Exported 1 bookmarks, 1 folders to "+file+"\n"))

	dst := newCLI(t)
	assert.Check(t, is.Equal(dst.mustRun("import", file), "Imported 1 bookmarks, 1 folders\n"))
	assert.Check(t, is.Equal(dst.mustRun("import", file), "Imported 0 bookmarks, 0 folders (1 duplicates skipped)\n"))

	bookmarks := dst.list()
	assert.Assert(t, is.Len(bookmarks, 1))
	assert.Check(t, is.Equal(bookmarks[0].Title, "GitHub"))
	assert.Check(t, is.Contains(dst.mustRun("folder", "tree"), "Dev (1)"))
}

func TestImport_MissingFile(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("import", filepath.Join(c.dir, "missing.html"))
	assert.Check(t, is.ErrorContains(err, "open import file"))
}

func TestCheck_ReportsAndPrunesDead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newCLI(t)
	c.mustRun("add", srv.URL+"/ok", "--title", "Alive", "--no-fetch")
	c.mustRun("add", srv.URL+"/gone", "--title", "Gone", "--no-fetch")

	out := c.mustRun("check", "--concurrency", "2")
	assert.Check(t, is.Contains(out, "Gone"))
	assert.Check(t, is.Contains(out, "HTTP 404"))
	assert.Check(t, !strings.Contains(out, "Alive"))
	assert.Check(t, is.Contains(out, "2 checked: 1 healthy, 1 dead, 0 unreachable, 0 possibly private"))
	assert.Check(t, is.Len(c.list(), 2))

	out = c.mustRun("check", "--prune")
	assert.Check(t, is.Contains(out, "Pruned 1 dead bookmarks"))
	bookmarks := c.list()
	assert.Assert(t, is.Len(bookmarks, 1))
	assert.Check(t, is.Equal(bookmarks[0].Title, "Alive"))
}

func TestQuickSearch(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "github.com", "--title", "GitHub", "--no-fetch")
	c.mustRun("add", "go.dev", "--title", "Go Docs", "--no-fetch")

	out := c.mustRun("github")
	assert.Check(t, is.Equal(out, "Opening: GitHub\n"))
	assert.Check(t, is.DeepEqual(c.opened, []string{"https://github.com"}))

	out = c.mustRun("zzzz")
	assert.Check(t, is.Equal(out, "No bookmarks found for 'zzzz'\n"))
	assert.Check(t, is.Len(c.opened, 1))
}

func TestEphemeral_DoesNotPersist(t *testing.T) {
	c := newCLI(t)
	c.mustRun("--ephemeral", "add", "example.com", "--title", "Example", "--no-fetch")
	assert.Check(t, is.Len(c.list(), 0))
}

func TestCheck_FlagDefaults(t *testing.T) {
	cmd := newCheckCmd(&options{})
	assert.Check(t, is.Equal(cmd.Flags().Lookup("concurrency").DefValue, "10"))
	assert.Check(t, is.Equal(cmd.Flags().Lookup("timeout").DefValue, "10s"))
	assert.Check(t, is.Equal(cmd.Flags().Lookup("prune").DefValue, "false"))
}
