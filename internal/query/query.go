// Package query filters bookmarks by search text, folder and tag.
// Every function is pure and recomputes from its input.
package query

import (
	"sort"
	"strings"

	"github.com/nikbrunner/popmark/internal/model"
)

// UncategorizedLabel is shown for bookmarks whose folder no longer exists.
const UncategorizedLabel = "Uncategorized"

// Params selects bookmarks. Nil ActiveFolder or ActiveTag means "all".
type Params struct {
	SearchQuery  string  `json:"searchQuery"`
	ActiveFolder *string `json:"activeFolder"`
	ActiveTag    *string `json:"activeTag"`
}

// IsZero reports whether p selects every bookmark.
func (p Params) IsZero() bool {
	return p.SearchQuery == "" && p.ActiveFolder == nil && p.ActiveTag == nil
}

// Filter returns the bookmarks matching all three predicates, in input order.
//
// The search text matches case-insensitively against title, URL,
// description and tags. The folder matches FolderID exactly, without
// descending into subfolders. The tag matches case-sensitively.
func Filter(bookmarks []model.Bookmark, p Params) []model.Bookmark {
	q := strings.ToLower(p.SearchQuery)

	result := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if !matchesSearch(b, q) {
			continue
		}
		if p.ActiveFolder != nil && b.FolderID != *p.ActiveFolder {
			continue
		}
		if p.ActiveTag != nil && !b.HasTag(*p.ActiveTag) {
			continue
		}
		result = append(result, b)
	}
	return result
}

// matchesSearch expects q to be lowercased already.
func matchesSearch(b model.Bookmark, q string) bool {
	if q == "" {
		return true
	}
	if containsFold(b.Title, q) || containsFold(b.URL, q) || containsFold(b.Description, q) {
		return true
	}
	for _, t := range b.Tags {
		if containsFold(t, q) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerQ string) bool {
	return strings.Contains(strings.ToLower(s), lowerQ)
}

// Favorites returns the favorite bookmarks in input order.
func Favorites(bookmarks []model.Bookmark) []model.Bookmark {
	var result []model.Bookmark
	for _, b := range bookmarks {
		if b.IsFavorite {
			result = append(result, b)
		}
	}
	return result
}

// DistinctTags returns every tag once, sorted ascending.
func DistinctTags(bookmarks []model.Bookmark) []string {
	seen := make(map[string]struct{})
	for _, b := range bookmarks {
		for _, t := range b.Tags {
			seen[t] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// FolderLabel returns the name of the folder, or UncategorizedLabel when
// folderID does not resolve.
func FolderLabel(store *model.Store, folderID string) string {
	if f := store.FolderByID(folderID); f != nil {
		return f.Name
	}
	return UncategorizedLabel
}

// Counts returns the number of bookmarks directly in each folder.
// Dangling folder IDs are counted under their own key.
func Counts(store *model.Store) map[string]int {
	counts := make(map[string]int, len(store.Folders))
	for _, f := range store.Folders {
		counts[f.ID] = 0
	}
	for _, b := range store.Bookmarks {
		counts[b.FolderID]++
	}
	return counts
}
