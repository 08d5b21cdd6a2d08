package tree

import (
	"iter"

	"github.com/nikbrunner/popmark/internal/model"
)

// Node is one folder in a rendered tree.
type Node struct {
	Folder      model.Folder
	Depth       int
	HasChildren bool
	Expanded    bool
}

// IsLeaf reports whether folder has no child folders and no bookmarks.
func IsLeaf(store *model.Store, folder model.Folder) bool {
	for _, f := range store.Folders {
		if f.ParentID != nil && *f.ParentID == folder.ID {
			return false
		}
	}
	for _, b := range store.Bookmarks {
		if b.FolderID == folder.ID {
			return false
		}
	}
	return true
}

// Walk yields every folder below parentID depth-first in pre-order,
// starting at depth. Pass nil parentID to start at the roots.
func Walk(store *model.Store, parentID *string, depth int, exp *Expansion) iter.Seq[Node] {
	return walker(store, parentID, depth, exp, false)
}

// Visible is Walk restricted to what a sidebar shows: children of a
// collapsed folder are skipped.
func Visible(store *model.Store, parentID *string, depth int, exp *Expansion) iter.Seq[Node] {
	return walker(store, parentID, depth, exp, true)
}

// Flatten collects a walk into a slice.
func Flatten(seq iter.Seq[Node]) []Node {
	var nodes []Node
	for n := range seq {
		nodes = append(nodes, n)
	}
	return nodes
}

func walker(store *model.Store, parentID *string, depth int, exp *Expansion, onlyExpanded bool) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		children := childIndex(store)
		visited := make(map[string]bool)
		if parentID != nil {
			visited[*parentID] = true
		}

		var walk func(key string, depth int) bool
		walk = func(key string, depth int) bool {
			for _, f := range children[key] {
				// A folder reached twice means the parent chain loops.
				if visited[f.ID] {
					continue
				}
				visited[f.ID] = true

				expanded := exp != nil && exp.IsExpanded(f.ID)
				node := Node{
					Folder:      f,
					Depth:       depth,
					HasChildren: len(children[f.ID]) > 0,
					Expanded:    expanded,
				}
				if !yield(node) {
					return false
				}
				if onlyExpanded && !expanded {
					continue
				}
				if !walk(f.ID, depth+1) {
					return false
				}
			}
			return true
		}

		walk(parentKey(parentID), depth)
	}
}

// rootKey cannot collide with a folder ID because IDs are never empty.
const rootKey = ""

func parentKey(parentID *string) string {
	if parentID == nil {
		return rootKey
	}
	return *parentID
}

func childIndex(store *model.Store) map[string][]model.Folder {
	idx := make(map[string][]model.Folder)
	for _, f := range store.Folders {
		key := parentKey(f.ParentID)
		idx[key] = append(idx[key], f)
	}
	return idx
}
