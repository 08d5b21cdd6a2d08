// Package search ranks bookmarks by fuzzy match for quick open.
package search

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/query"
)

// SearchResult is one ranked match.
type SearchResult struct {
	Bookmark *model.Bookmark
	// Folder is the full folder path, or query.UncategorizedLabel.
	Folder string
	// TitleIndexes are the matched rune positions inside Bookmark.Title.
	// A match found only in the host leaves it empty.
	TitleIndexes []int
	Score        int
}

// candidates implements fuzzy.Source. Each bookmark is matched on its
// title followed by its host, so "ghub" finds a page titled "Issues" on
// github.com.
type candidates struct {
	bookmarks []*model.Bookmark
	keys      []string
}

func newCandidates(bookmarks []model.Bookmark) candidates {
	c := candidates{
		bookmarks: make([]*model.Bookmark, len(bookmarks)),
		keys:      make([]string, len(bookmarks)),
	}
	for i := range bookmarks {
		b := &bookmarks[i]
		c.bookmarks[i] = b
		c.keys[i] = b.Title + keySep + host(b.URL)
	}
	return c
}

// keySep keeps a title match from running into the host.
const keySep = "  "

func (c candidates) String(i int) string { return c.keys[i] }
func (c candidates) Len() int            { return len(c.keys) }

func host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FuzzySearchBookmarks ranks every bookmark in the store against q.
func FuzzySearchBookmarks(store *model.Store, q string) []SearchResult {
	return FuzzySearch(store, store.Bookmarks, q)
}

// FuzzySearch ranks a subset of the store's bookmarks, e.g. the output of
// query.Filter. Results are best first; favorites win ties. The returned
// pointers alias the given slice. An empty q matches nothing.
func FuzzySearch(store *model.Store, bookmarks []model.Bookmark, q string) []SearchResult {
	if strings.TrimSpace(q) == "" {
		return nil
	}

	src := newCandidates(bookmarks)
	matches := fuzzy.FindFrom(q, src)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		b := src.bookmarks[m.Index]
		results[i] = SearchResult{
			Bookmark:     b,
			Folder:       folderPath(store, b.FolderID),
			TitleIndexes: titleIndexes(b.Title, m.MatchedIndexes),
			Score:        m.Score,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Bookmark.IsFavorite && !results[j].Bookmark.IsFavorite
	})
	return results
}

func folderPath(store *model.Store, folderID string) string {
	if p := store.FolderPathString(folderID); p != "" {
		return p
	}
	return query.UncategorizedLabel
}

// titleIndexes converts byte offsets in the match key into rune positions
// in title, dropping those that fall in the host part.
func titleIndexes(title string, matched []int) []int {
	if len(matched) == 0 {
		return nil
	}
	runeAt := make(map[int]int, len(title))
	n := 0
	for i := range title {
		runeAt[i] = n
		n++
	}

	var out []int
	for _, idx := range matched {
		if r, ok := runeAt[idx]; ok && idx < len(title) {
			out = append(out, r)
		}
	}
	return out
}
