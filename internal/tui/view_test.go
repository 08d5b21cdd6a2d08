package tui_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/storage"
	"github.com/nikbrunner/popmark/internal/tui"
	"github.com/nikbrunner/popmark/internal/tui/layout"
)

// plainView renders the app without ANSI codes.
func plainView(app tui.App) string {
	return layout.StripANSI(app.View())
}

func TestView_Normal(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(app)

	for _, want := range []string{
		"popmark",
		"Folders",
		"All Bookmarks",
		"▾ Development 1",
		"Go 1",
		"Tools 1",
		"Bookmarks (3)",
		"GitHub",
		"★ Hacker News",
		"#docs #go",
		"/:search",
	} {
		assert.Check(t, is.Contains(out, want))
	}
}

func TestView_FitsTerminal(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(app)

	lines := strings.Split(out, "\n")
	assert.Equal(t, len(lines), 40)
	for i, line := range lines {
		assert.Check(t, layout.Width(line) <= 120, "line %d is %d wide", i, layout.Width(line))
	}
}

func TestView_SelectedFolder(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(app, "j", "enter")
	out := plainView(app)

	assert.Check(t, is.Contains(out, "▸ Development"))
	assert.Check(t, is.Contains(out, "Bookmarks (1)"))
	assert.Check(t, !strings.Contains(out, "GitHub"))
}

func TestView_BreadcrumbShowsFolderPath(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(app, "j", "j", "enter")
	out := plainView(app)

	assert.Check(t, is.Contains(out, "Development / Go"))
}

func TestView_FilterIndicators(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(typeText(press(app, "/"), "go"), "enter")
	app = press(app, "t", "t")
	out := plainView(app)

	assert.Check(t, is.Contains(out, "/go #docs"))
	assert.Check(t, is.Contains(out, "Bookmarks (1)"))
}

func TestView_SearchInput(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(press(app, "/"), "zzz")
	out := plainView(app)

	assert.Check(t, is.Contains(out, "/> zzz"))
	assert.Check(t, is.Contains(out, "(no matches)"))
}

func TestView_EmptyStore(t *testing.T) {
	c := newContainer(t, storage.NewKVStorage(storage.NewMemoryKV()), model.NewStore())
	out := plainView(newAppFor(c))

	assert.Check(t, is.Contains(out, "(no bookmarks yet, press a to add one)"))
	assert.Check(t, is.Contains(out, "Bookmarks (0)"))
}

func TestView_ConfirmDelete(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "tab", "d"))

	assert.Check(t, is.Contains(out, "Delete Bookmark?"))
	assert.Check(t, is.Contains(out, "GitHub"))
	assert.Check(t, is.Contains(out, "Enter confirm"))
}

func TestView_ConfirmDeleteFolder(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "j", "d"))

	assert.Check(t, is.Contains(out, "Delete Folder?"))
	assert.Check(t, is.Contains(out, "Development"))
}

func TestView_AddBookmarkErrors(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "a", "enter"))

	assert.Check(t, is.Contains(out, "Add Bookmark"))
	assert.Check(t, is.Contains(out, "Title is required"))
	assert.Check(t, is.Contains(out, "URL is required"))
	assert.Check(t, is.Contains(out, "Please select a folder"))
}

func TestView_AddFolderError(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "j", "A", "enter"))

	assert.Check(t, is.Contains(out, "In: Development"))
	assert.Check(t, is.Contains(out, "Folder name is required"))
}

func TestView_HelpOverlay(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "?"))

	assert.Check(t, is.Contains(out, "cycle tag"))
	assert.Check(t, is.Contains(out, "yank url"))
}

func TestView_MessageLine(t *testing.T) {
	app, _ := newTestApp(t)
	out := plainView(press(app, "tab", "Y"))

	assert.Check(t, is.Contains(out, "✓ Copied https://github.com"))
}
