package state

import "github.com/nikbrunner/popmark/internal/model"

// Action is a request to change the container. Store mutations are
// persisted; selection actions only change what the derived reads return.
type Action interface {
	Name() string
}

// AddBookmark creates a bookmark.
type AddBookmark struct {
	Params model.NewBookmarkParams
}

// UpdateBookmark edits a bookmark in place. The folder cannot change.
type UpdateBookmark struct {
	ID    string
	Patch model.BookmarkPatch
}

// DeleteBookmark removes a bookmark.
type DeleteBookmark struct {
	ID string
}

// ToggleFavorite flips a bookmark's favorite flag.
type ToggleFavorite struct {
	ID string
}

// AddFolder creates a folder and expands its parent.
type AddFolder struct {
	Params model.NewFolderParams
}

// DeleteFolder removes a folder. A nil Mode uses the container default.
type DeleteFolder struct {
	ID   string
	Mode *model.DeleteMode
}

// MoveFolder reparents a folder. A nil ParentID moves it to the root.
type MoveFolder struct {
	ID       string
	ParentID *string
}

// ToggleExpanded flips a folder's expansion flag.
type ToggleExpanded struct {
	ID string
}

// SelectFolder sets the active folder. Nil selects all folders.
type SelectFolder struct {
	ID *string
}

// SelectTag sets the active tag. Nil clears it.
type SelectTag struct {
	Tag *string
}

// SetSearch sets the search text.
type SetSearch struct {
	Query string
}

// ClearFilters resets search, folder and tag.
type ClearFilters struct{}

func (AddBookmark) Name() string    { return "add_bookmark" }
func (UpdateBookmark) Name() string { return "update_bookmark" }
func (DeleteBookmark) Name() string { return "delete_bookmark" }
func (ToggleFavorite) Name() string { return "toggle_favorite" }
func (AddFolder) Name() string      { return "add_folder" }
func (DeleteFolder) Name() string   { return "delete_folder" }
func (MoveFolder) Name() string     { return "move_folder" }
func (ToggleExpanded) Name() string { return "toggle_expanded" }
func (SelectFolder) Name() string   { return "select_folder" }
func (SelectTag) Name() string      { return "select_tag" }
func (SetSearch) Name() string      { return "set_search" }
func (ClearFilters) Name() string   { return "clear_filters" }
func (Import) Name() string         { return "import" }

// Import merges parsed folders and bookmarks into the store. Folders are
// matched by name under the same parent; bookmarks with a known URL are
// skipped.
type Import struct {
	Folders   []model.Folder
	Bookmarks []model.Bookmark
}

// Result carries what an applied action produced, if anything.
type Result struct {
	Bookmark *model.Bookmark
	Folder   *model.Folder
	Deleted  model.DeleteResult
	Expanded bool

	Imported int
	Skipped  int
}

// Event is sent to listeners after every dispatch.
type Event struct {
	Action Action
	Err    error
}
