package model

import (
	"slices"
	"time"
)

// Store holds all bookmarks and folders.
type Store struct {
	Folders   []Folder   `json:"folders"`
	Bookmarks []Bookmark `json:"bookmarks"`

	// Now is the clock used for CreatedAt. Defaults to time.Now.
	Now func() time.Time `json:"-"`
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Folders:   []Folder{},
		Bookmarks: []Bookmark{},
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		Folders:   make([]Folder, len(s.Folders)),
		Bookmarks: make([]Bookmark, len(s.Bookmarks)),
		Now:       s.Now,
	}
	for i, f := range s.Folders {
		c.Folders[i] = f.clone()
	}
	for i, b := range s.Bookmarks {
		c.Bookmarks[i] = b.clone()
	}
	return c
}

// ChildrenOf returns folders with the given parent ID in insertion order.
// Pass nil for root level folders.
func (s *Store) ChildrenOf(parentID *string) []Folder {
	return collect(s.Folders, func(f Folder) bool { return ptrEqual(f.ParentID, parentID) })
}

// GetBookmarksInFolder returns bookmarks whose FolderID equals folderID.
func (s *Store) GetBookmarksInFolder(folderID string) []Bookmark {
	return collect(s.Bookmarks, func(b Bookmark) bool { return b.FolderID == folderID })
}

// FolderByID returns a pointer into s.Folders, or nil.
func (s *Store) FolderByID(id string) *Folder {
	return find(s.Folders, func(f Folder) bool { return f.ID == id })
}

// BookmarkByID returns a pointer into s.Bookmarks, or nil.
func (s *Store) BookmarkByID(id string) *Bookmark {
	return find(s.Bookmarks, func(b Bookmark) bool { return b.ID == id })
}

// HasBookmarkURL reports whether any bookmark points at url.
func (s *Store) HasBookmarkURL(url string) bool {
	return slices.ContainsFunc(s.Bookmarks, func(b Bookmark) bool { return b.URL == url })
}

// RefreshCounts recomputes each folder's informational Count from the
// bookmarks that reference it directly.
func (s *Store) RefreshCounts() {
	counts := make(map[string]int, len(s.Folders))
	for _, b := range s.Bookmarks {
		counts[b.FolderID]++
	}
	for i := range s.Folders {
		s.Folders[i].Count = counts[s.Folders[i].ID]
	}
}

func collect[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func find[T any](items []T, match func(T) bool) *T {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return &items[i]
	}
	return nil
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
