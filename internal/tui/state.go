package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/popmark/internal/form"
	"github.com/nikbrunner/popmark/internal/tui/layout"
)

// Mode is the current input mode of the App.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAddBookmark
	ModeAddFolder
	ModeConfirmDelete
	ModeHelp
)

// Pane identifies which pane has focus in ModeNormal.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneList
)

// MessageType controls how the status line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// SearchState holds the search line above the bookmark list.
type SearchState struct {
	Input textinput.Model
}

// NewSearchState creates a new SearchState with initialized input.
func NewSearchState(cfg layout.Config) SearchState {
	input := textinput.New()
	input.Placeholder = "Search..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.SearchWidth
	return SearchState{Input: input}
}

// Bookmark form fields, in tab order.
const (
	FieldTitle = iota
	FieldURL
	FieldTags
	fieldCount
)

// BookmarkFormState holds the add-bookmark modal.
type BookmarkFormState struct {
	Inputs [fieldCount]textinput.Model
	Focus  int
	Draft  form.BookmarkDraft
	Folder string            // display name of the target folder
	Errors map[string]string // per-field validation messages
}

// NewBookmarkFormState creates a new BookmarkFormState with initialized inputs.
func NewBookmarkFormState(cfg layout.Config) BookmarkFormState {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = cfg.Input.TitleCharLimit
	title.Width = cfg.Input.FieldWidth

	url := textinput.New()
	url.Placeholder = "https://..."
	url.CharLimit = cfg.Input.URLCharLimit
	url.Width = cfg.Input.FieldWidth

	tags := textinput.New()
	tags.Placeholder = "tag1, tag2, tag3"
	tags.CharLimit = cfg.Input.TagsCharLimit
	tags.Width = cfg.Input.FieldWidth

	return BookmarkFormState{Inputs: [fieldCount]textinput.Model{title, url, tags}}
}

// Load fills the inputs from a draft and focuses the first empty field.
func (f *BookmarkFormState) Load(d form.BookmarkDraft, folder string) {
	f.Draft = d
	f.Folder = folder
	f.Errors = nil
	f.Inputs[FieldTitle].SetValue(d.Title)
	f.Inputs[FieldURL].SetValue(d.URL)
	f.Inputs[FieldTags].SetValue(d.Tags)

	f.Focus = FieldTitle
	if d.Title != "" && d.URL == "" {
		f.Focus = FieldURL
	}
	f.focus()
}

// Next moves focus to the next field, wrapping around.
func (f *BookmarkFormState) Next() {
	f.Focus = (f.Focus + 1) % fieldCount
	f.focus()
}

func (f *BookmarkFormState) focus() {
	for i := range f.Inputs {
		if i == f.Focus {
			f.Inputs[i].Focus()
		} else {
			f.Inputs[i].Blur()
		}
	}
}

// Collect copies the inputs back into the draft.
func (f *BookmarkFormState) Collect() form.BookmarkDraft {
	d := f.Draft
	d.Title = f.Inputs[FieldTitle].Value()
	if url := f.Inputs[FieldURL].Value(); url != d.URL {
		d.SetURL(url)
	}
	d.Tags = f.Inputs[FieldTags].Value()
	return d
}

// Reset clears the form.
func (f *BookmarkFormState) Reset() {
	for i := range f.Inputs {
		f.Inputs[i].Reset()
		f.Inputs[i].Blur()
	}
	f.Focus = FieldTitle
	f.Draft = form.BookmarkDraft{}
	f.Folder = ""
	f.Errors = nil
}

// FolderFormState holds the add-folder modal.
type FolderFormState struct {
	Input    textinput.Model
	ParentID *string
	Parent   string // display name, empty at root
	Error    string
}

// NewFolderFormState creates a new FolderFormState with initialized input.
func NewFolderFormState(cfg layout.Config) FolderFormState {
	input := textinput.New()
	input.Placeholder = "Folder name"
	input.CharLimit = cfg.Input.TitleCharLimit
	input.Width = cfg.Input.FieldWidth
	return FolderFormState{Input: input}
}

// Reset clears the form.
func (f *FolderFormState) Reset() {
	f.Input.Reset()
	f.Input.Blur()
	f.ParentID = nil
	f.Parent = ""
	f.Error = ""
}

// ConfirmState describes what a pending delete will remove.
type ConfirmState struct {
	IsFolder bool
	ID       string
	Name     string
}
