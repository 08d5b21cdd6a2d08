package tui

import "github.com/nikbrunner/popmark/internal/tree"

// ItemKind distinguishes the rows of the folder sidebar.
type ItemKind int

const (
	ItemAll ItemKind = iota // "All Bookmarks", clears the folder filter
	ItemFolder
)

// Item is one sidebar row.
type Item struct {
	Kind ItemKind
	Node tree.Node
}

// ID returns the folder ID, or nil for the "All Bookmarks" row.
func (i Item) ID() *string {
	if i.Kind == ItemAll {
		return nil
	}
	id := i.Node.Folder.ID
	return &id
}

// Title returns a display title for the item.
func (i Item) Title() string {
	if i.Kind == ItemAll {
		return "All Bookmarks"
	}
	return i.Node.Folder.Name
}

// IsFolder returns true if this row is a folder.
func (i Item) IsFolder() bool {
	return i.Kind == ItemFolder
}

// Marker returns the expansion marker: ▾ open, ▸ closed, blank for leaves.
func (i Item) Marker() string {
	switch {
	case !i.IsFolder() || !i.Node.HasChildren:
		return " "
	case i.Node.Expanded:
		return "▾"
	default:
		return "▸"
	}
}
