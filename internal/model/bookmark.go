package model

import "time"

// DefaultColor is the accent color given to bookmarks created without one.
const DefaultColor = "#4285F4"

// Bookmark represents a saved URL with display metadata.
type Bookmark struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	FolderID    string    `json:"folderId"` // set once at creation, never revalidated
	Favicon     string    `json:"favicon"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	IsFavorite  bool      `json:"isFavorite"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Title       string
	URL         string
	FolderID    string
	Favicon     string
	Color       string
	Description string
	Tags        []string
}

// BookmarkPatch describes an in-place update. Nil fields are left alone.
type BookmarkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Favicon     *string
	Color       *string
	Tags        []string // nil = unchanged, empty = clear
}

// HasTag reports whether the bookmark carries tag exactly (case-sensitive).
func (b Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (b Bookmark) clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append([]string{}, b.Tags...)
	}
	return b
}
