package state

import (
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/query"
	"github.com/nikbrunner/popmark/internal/tree"
)

// Snapshot returns a deep copy of the store.
func (c *Container) Snapshot() *model.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Clone()
}

// Query returns the active query parameters.
func (c *Container) Query() query.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Params{
		SearchQuery:  c.params.SearchQuery,
		ActiveFolder: copyPtr(c.params.ActiveFolder),
		ActiveTag:    copyPtr(c.params.ActiveTag),
	}
}

// Bookmarks returns the bookmarks matching the active query.
func (c *Container) Bookmarks() []model.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Filter(c.store.Clone().Bookmarks, c.params)
}

// Favorites returns all favorite bookmarks, ignoring the active query.
func (c *Container) Favorites() []model.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Favorites(c.store.Clone().Bookmarks)
}

// Tags returns every distinct tag, sorted.
func (c *Container) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.DistinctTags(c.store.Bookmarks)
}

// Tree returns the visible sidebar nodes.
func (c *Container) Tree() []tree.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return tree.Flatten(tree.Visible(c.store, nil, 0, c.expansion))
}

// FolderLabel returns the display name for a bookmark's folder.
func (c *Container) FolderLabel(folderID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.FolderLabel(c.store, folderID)
}

// IsExpanded reports a folder's expansion flag.
func (c *Container) IsExpanded(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expansion.IsExpanded(id)
}

// Expanded returns a copy of every expansion flag.
func (c *Container) Expanded() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expansion.Snapshot()
}

// Counts returns the number of bookmarks directly in each folder.
func (c *Container) Counts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return query.Counts(c.store)
}
