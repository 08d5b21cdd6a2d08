package importer_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/popmark/internal/importer"
	"github.com/nikbrunner/popmark/internal/model"
)

// parse wraps body in the Netscape preamble browsers write.
func parse(t *testing.T, body string) ([]model.Folder, []model.Bookmark) {
	t.Helper()
	doc := "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n" +
		`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">` + "\n" +
		"<TITLE>Bookmarks</TITLE>\n<H1>Bookmarks</H1>\n<DL><p>\n" + body + "\n</DL><p>\n"

	folders, bookmarks, err := importer.ParseHTMLBookmarks(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseHTMLBookmarks: %v", err)
	}
	return folders, bookmarks
}

func titles(bookmarks []model.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.Title
	}
	return out
}

func TestParse_Counts(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantFolders   int
		wantBookmarks []string
	}{
		{
			name: "empty",
		},
		{
			name:          "root bookmark",
			body:          `<DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>`,
			wantBookmarks: []string{"Example Site"},
		},
		{
			name: "missing href is skipped",
			body: `<DT><A ADD_DATE="1234567890">No URL</A>
<DT><A HREF="https://valid.com">Valid</A>`,
			wantBookmarks: []string{"Valid"},
		},
		{
			name:          "empty title falls back to url",
			body:          `<DT><A HREF="https://untitled.example.com"></A>`,
			wantBookmarks: []string{"https://untitled.example.com"},
		},
		{
			name:        "unnamed folder is skipped",
			body:        `<DT><H3></H3><DL><p></DL><p>`,
			wantFolders: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folders, bookmarks := parse(t, tt.body)
			if len(folders) != tt.wantFolders {
				t.Errorf("folders = %d, want %d", len(folders), tt.wantFolders)
			}
			if got := titles(bookmarks); !slices.Equal(got, tt.wantBookmarks) {
				t.Errorf("bookmarks = %q, want %q", got, tt.wantBookmarks)
			}
			for _, b := range bookmarks {
				if b.ID == "" {
					t.Errorf("%q has no ID", b.Title)
				}
			}
		})
	}
}

func TestParse_NestedFolders(t *testing.T) {
	folders, bookmarks := parse(t, `
<DT><H3 ADD_DATE="1234567890">Development</H3>
<DL><p>
    <DT><H3>React</H3>
    <DL><p>
        <DT><A HREF="https://react.dev">React Docs</A>
    </DL><p>
    <DT><A HREF="https://github.com">GitHub</A>
</DL><p>
<DT><A HREF="https://google.com">Google</A>`)

	if len(folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(folders))
	}
	dev, react := folders[0], folders[1]
	if dev.Name != "Development" || dev.ParentID != nil {
		t.Errorf("Development should be a root folder, got %+v", dev)
	}
	if react.Name != "React" || react.ParentID == nil || *react.ParentID != dev.ID {
		t.Errorf("React should be inside Development, got %+v", react)
	}

	want := map[string]string{"React Docs": react.ID, "GitHub": dev.ID, "Google": ""}
	for _, b := range bookmarks {
		if b.FolderID != want[b.Title] {
			t.Errorf("%s is in %q, want %q", b.Title, b.FolderID, want[b.Title])
		}
	}
}

func TestParse_SiblingFoldersAfterNesting(t *testing.T) {
	folders, bookmarks := parse(t, `
<DT><H3>A</H3>
<DL><p>
    <DT><H3>A1</H3>
    <DL><p></DL><p>
</DL><p>
<DT><H3>B</H3>
<DL><p>
    <DT><A HREF="https://b.example.com">In B</A>
</DL><p>`)

	if len(folders) != 3 {
		t.Fatalf("expected 3 folders, got %d", len(folders))
	}
	b := folders[2]
	if b.Name != "B" || b.ParentID != nil {
		t.Errorf("B should be a root folder, got %+v", b)
	}
	if len(bookmarks) != 1 || bookmarks[0].FolderID != b.ID {
		t.Errorf("bookmark should be in B, got %+v", bookmarks)
	}
}

func TestParse_Timestamps(t *testing.T) {
	_, bookmarks := parse(t, `
<DT><A HREF="https://example.com" ADD_DATE="1234567890">Dated</A>
<DT><A HREF="https://undated.example.com">Undated</A>
<DT><A HREF="https://bad.example.com" ADD_DATE="yesterday">Bad</A>`)

	if len(bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(bookmarks))
	}
	if want := time.Unix(1234567890, 0); !bookmarks[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", bookmarks[0].CreatedAt, want)
	}
	for _, b := range bookmarks[1:] {
		if !b.CreatedAt.IsZero() {
			t.Errorf("%s: expected zero CreatedAt, got %v", b.Title, b.CreatedAt)
		}
	}
}

func TestParse_TagsIconAndDescription(t *testing.T) {
	_, bookmarks := parse(t, `
<DT><A HREF="https://go.dev" TAGS="go, docs,,lang" ICON_URI="https://go.dev/favicon.ico">Go</A>
<DD>The Go programming language
<DT><A HREF="https://inline.example.com" ICON="data:image/png;base64,AAAA">Inline Icon</A>
<DT><A HREF="https://icon.example.com" ICON="https://icon.example.com/i.png">Plain Icon</A>`)

	if len(bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(bookmarks))
	}

	gol := bookmarks[0]
	if !slices.Equal(gol.Tags, []string{"go", "docs", "lang"}) {
		t.Errorf("unexpected tags %v", gol.Tags)
	}
	if gol.Favicon != "https://go.dev/favicon.ico" {
		t.Errorf("expected ICON_URI favicon, got %q", gol.Favicon)
	}
	if gol.Description != "The Go programming language" {
		t.Errorf("expected description, got %q", gol.Description)
	}

	inline := bookmarks[1]
	if inline.Favicon != "" {
		t.Errorf("data: icon should be dropped, got %q", inline.Favicon)
	}
	if inline.Description != "" {
		t.Errorf("description leaked to next bookmark: %q", inline.Description)
	}

	if bookmarks[2].Favicon != "https://icon.example.com/i.png" {
		t.Errorf("expected ICON favicon, got %q", bookmarks[2].Favicon)
	}
}

func TestParse_FolderDescriptionIsIgnored(t *testing.T) {
	folders, bookmarks := parse(t, `
<DT><A HREF="https://example.com">Before</A>
<DT><H3>Folder</H3>
<DD>About this folder
<DL><p>
    <DT><A HREF="https://inside.example.com">Inside</A>
</DL><p>`)

	if len(folders) != 1 || len(bookmarks) != 2 {
		t.Fatalf("got %d folders, %d bookmarks", len(folders), len(bookmarks))
	}
	if bookmarks[0].Description != "" {
		t.Errorf("folder description attached to bookmark: %q", bookmarks[0].Description)
	}
	if bookmarks[1].FolderID != folders[0].ID {
		t.Error("Inside should be in Folder")
	}
}
