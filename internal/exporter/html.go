// Package exporter writes the store as Netscape bookmark HTML.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/popmark/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/popmark-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("popmark-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the store to Netscape bookmark HTML format.
//
// Folders whose parent no longer exists, and folders only reachable through
// a cycle, are written at the top level. So are bookmarks whose folder is
// gone. Nothing in the store is dropped.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	w := &writer{b: &b, store: store, visited: make(map[string]bool)}

	for _, f := range store.Folders {
		if f.ParentID == nil || store.FolderByID(*f.ParentID) == nil {
			w.writeFolder(f, 1)
		}
	}
	for _, f := range store.Folders {
		if !w.visited[f.ID] {
			w.writeFolder(f, 1)
		}
	}

	for _, bm := range store.Bookmarks {
		if store.FolderByID(bm.FolderID) == nil {
			w.writeBookmark(bm, 1)
		}
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

type writer struct {
	b       *strings.Builder
	store   *model.Store
	visited map[string]bool
}

// writeFolder writes a folder, its subfolders and its bookmarks.
func (w *writer) writeFolder(folder model.Folder, indent int) {
	if w.visited[folder.ID] {
		return
	}
	w.visited[folder.ID] = true

	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(w.b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(folder.Name))
	fmt.Fprintf(w.b, "%s<DL><p>\n", prefix)

	id := folder.ID
	for _, child := range w.store.ChildrenOf(&id) {
		w.writeFolder(child, indent+1)
	}
	for _, bm := range w.store.GetBookmarksInFolder(folder.ID) {
		w.writeBookmark(bm, indent+1)
	}

	fmt.Fprintf(w.b, "%s</DL><p>\n", prefix)
}

func (w *writer) writeBookmark(bm model.Bookmark, indent int) {
	prefix := strings.Repeat("    ", indent)

	attrs := fmt.Sprintf(` HREF="%s" ADD_DATE="%d"`, html.EscapeString(bm.URL), bm.CreatedAt.Unix())
	if bm.Favicon != "" {
		attrs += fmt.Sprintf(` ICON_URI="%s"`, html.EscapeString(bm.Favicon))
	}
	if len(bm.Tags) > 0 {
		attrs += fmt.Sprintf(` TAGS="%s"`, html.EscapeString(strings.Join(bm.Tags, ",")))
	}

	fmt.Fprintf(w.b, "%s<DT><A%s>%s</A>\n", prefix, attrs, html.EscapeString(bm.Title))
	if bm.Description != "" {
		fmt.Fprintf(w.b, "%s<DD>%s\n", prefix, html.EscapeString(bm.Description))
	}
}
