package tui

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/popmark/internal/form"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/tabinfo"
	"github.com/nikbrunner/popmark/internal/tui/layout"
)

// dispatchTimeout bounds a single storage round trip from the UI.
const dispatchTimeout = 5 * time.Second

// App is the main bubbletea model: a folder sidebar next to the filtered
// bookmark list, both backed by a state.Container.
type App struct {
	state        *state.Container
	tabs         tabinfo.Provider
	log          logger.Logger
	keys         KeyMap
	styles       Styles
	layoutConfig layout.Config
	defaultColor string
	copyURL      func(string) error
	openURL      func(string) error

	mode          Mode
	focusedPane   Pane
	sidebarCursor int
	listCursor    int

	// For gg command
	lastKeyWasG bool

	search       SearchState
	bookmarkForm BookmarkFormState
	folderForm   FolderFormState
	confirm      ConfirmState

	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	State        *state.Container
	Tabs         tabinfo.Provider // optional, prefills new bookmarks
	Logger       logger.Logger    // optional
	DefaultColor string
	CopyURL      func(string) error // optional, uses the system clipboard if nil
	OpenURL      func(string) error // optional, uses OpenURL if nil
	Keys         *KeyMap            // optional, uses default if nil
	Styles       *Styles            // optional, uses default if nil
	LayoutConfig *layout.Config
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutConfig := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutConfig = *params.LayoutConfig
	}

	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}

	copyURL := params.CopyURL
	if copyURL == nil {
		copyURL = clipboard.WriteAll
	}
	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenURL
	}

	return App{
		state:        params.State,
		tabs:         params.Tabs,
		log:          log,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutConfig,
		defaultColor: params.DefaultColor,
		copyURL:      copyURL,
		openURL:      openURL,
		search:       NewSearchState(layoutConfig),
		bookmarkForm: NewBookmarkFormState(layoutConfig),
		folderForm:   NewFolderFormState(layoutConfig),
		width:        80,
		height:       24,
	}
}

// OpenURL opens url in the system browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// WithDimensions returns a copy of the App sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// FocusedPane returns the pane that receives navigation keys.
func (a App) FocusedPane() Pane {
	return a.focusedPane
}

// SidebarCursor returns the selected sidebar row.
func (a App) SidebarCursor() int {
	return a.sidebarCursor
}

// ListCursor returns the selected bookmark row.
func (a App) ListCursor() int {
	return a.listCursor
}

// Message returns the status line text and its type.
func (a App) Message() (string, MessageType) {
	return a.messageText, a.messageType
}

// Sidebar returns the sidebar rows: "All Bookmarks" then the visible folders.
func (a App) Sidebar() []Item {
	nodes := a.state.Tree()
	items := make([]Item, 0, len(nodes)+1)
	items = append(items, Item{Kind: ItemAll})
	for _, n := range nodes {
		items = append(items, Item{Kind: ItemFolder, Node: n})
	}
	return items
}

// Bookmarks returns the bookmarks shown in the list pane.
func (a App) Bookmarks() []model.Bookmark {
	return a.state.Bookmarks()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch a.mode {
		case ModeSearch:
			a, cmd = a.updateSearch(msg)
		case ModeAddBookmark:
			a, cmd = a.updateBookmarkForm(msg)
		case ModeAddFolder:
			a, cmd = a.updateFolderForm(msg)
		case ModeConfirmDelete:
			a = a.updateConfirmDelete(msg)
		case ModeHelp:
			a = a.updateHelp(msg)
		default:
			a, cmd = a.updateNormal(msg)
		}
		a.clampCursors()
		return a, cmd
	}

	// Cursor blink and other input messages go to the focused input
	var cmd tea.Cmd
	switch a.mode {
	case ModeSearch:
		a.search.Input, cmd = a.search.Input.Update(msg)
	case ModeAddBookmark:
		f := a.bookmarkForm.Focus
		a.bookmarkForm.Inputs[f], cmd = a.bookmarkForm.Inputs[f].Update(msg)
	case ModeAddFolder:
		a.folderForm.Input, cmd = a.folderForm.Input.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

func (a App) updateNormal(msg tea.KeyMsg) (App, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.setCursor(0)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.SwitchPane):
		if a.focusedPane == PaneSidebar {
			a.focusedPane = PaneList
		} else {
			a.focusedPane = PaneSidebar
		}

	case key.Matches(msg, a.keys.Down):
		a.setCursor(a.cursor() + 1)

	case key.Matches(msg, a.keys.Up):
		a.setCursor(a.cursor() - 1)

	case key.Matches(msg, a.keys.Bottom):
		a.setCursor(a.paneLen() - 1)

	case key.Matches(msg, a.keys.Select):
		if a.focusedPane == PaneSidebar {
			a.activateFolder()
		} else {
			a.openSelected()
		}

	case key.Matches(msg, a.keys.Toggle):
		if item, ok := a.sidebarItem(); ok && a.focusedPane == PaneSidebar && item.IsFolder() {
			a.dispatch(state.ToggleExpanded{ID: item.Node.Folder.ID})
		}

	case key.Matches(msg, a.keys.AllFolders):
		if _, err := a.dispatch(state.SelectFolder{}); err == nil {
			a.sidebarCursor = 0
			a.listCursor = 0
		}

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.Input.SetValue(a.state.Query().SearchQuery)
		a.search.Input.CursorEnd()
		a.search.Input.Focus()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.CycleTag):
		a.cycleTag()

	case key.Matches(msg, a.keys.Favorite):
		if b, ok := a.selectedBookmark(); ok && a.focusedPane == PaneList {
			a.dispatch(state.ToggleFavorite{ID: b.ID})
		}

	case key.Matches(msg, a.keys.Delete):
		a.startDelete()

	case key.Matches(msg, a.keys.AddBookmark):
		return a.startAddBookmark()

	case key.Matches(msg, a.keys.AddFolder):
		return a.startAddFolder()

	case key.Matches(msg, a.keys.YankURL):
		a.yankURL()

	case key.Matches(msg, a.keys.ClearFilter):
		if !a.state.Query().IsZero() {
			if _, err := a.dispatch(state.ClearFilters{}); err == nil {
				a.sidebarCursor = 0
				a.listCursor = 0
				a.setMessage(MessageInfo, "Filters cleared")
			}
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search.Input.Reset()
		a.search.Input.Blur()
		a.mode = ModeNormal
		a.dispatch(state.SetSearch{Query: ""})
		return a, nil

	case tea.KeyEnter:
		a.search.Input.Blur()
		a.mode = ModeNormal
		a.focusedPane = PaneList
		return a, nil
	}

	prev := a.search.Input.Value()
	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	if value := a.search.Input.Value(); value != prev {
		a.dispatch(state.SetSearch{Query: value})
		a.listCursor = 0
	}
	return a, cmd
}

func (a App) updateBookmarkForm(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.bookmarkForm.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyTab, tea.KeyDown:
		a.bookmarkForm.Next()
		return a, nil

	case tea.KeyEnter:
		a.submitBookmark()
		return a, nil
	}

	f := a.bookmarkForm.Focus
	var cmd tea.Cmd
	a.bookmarkForm.Inputs[f], cmd = a.bookmarkForm.Inputs[f].Update(msg)
	return a, cmd
}

func (a App) updateFolderForm(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.folderForm.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		a.submitFolder()
		return a, nil
	}

	var cmd tea.Cmd
	a.folderForm.Input, cmd = a.folderForm.Input.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) App {
	switch msg.String() {
	case "enter", "y":
		a.mode = ModeNormal
		if a.confirm.IsFolder {
			res, err := a.dispatch(state.DeleteFolder{ID: a.confirm.ID})
			if err == nil {
				a.setMessage(MessageSuccess, deleteFolderMessage(a.confirm.Name, res.Deleted))
			}
		} else if _, err := a.dispatch(state.DeleteBookmark{ID: a.confirm.ID}); err == nil {
			a.setMessage(MessageSuccess, "Deleted "+a.confirm.Name)
		}
		a.confirm = ConfirmState{}

	case "esc", "n", "q":
		a.mode = ModeNormal
		a.confirm = ConfirmState{}
	}
	return a
}

func (a App) updateHelp(msg tea.KeyMsg) App {
	switch msg.String() {
	case "?", "q", "esc":
		a.mode = ModeNormal
	}
	return a
}

// activateFolder selects the folder under the sidebar cursor and toggles
// its expansion when it has children.
func (a *App) activateFolder() {
	item, ok := a.sidebarItem()
	if !ok {
		return
	}
	if _, err := a.dispatch(state.SelectFolder{ID: item.ID()}); err != nil {
		return
	}
	a.listCursor = 0
	if item.IsFolder() && item.Node.HasChildren {
		a.dispatch(state.ToggleExpanded{ID: item.Node.Folder.ID})
	}
}

func (a *App) openSelected() {
	b, ok := a.selectedBookmark()
	if !ok {
		return
	}
	if err := a.openURL(b.URL); err != nil {
		a.log.Warn("open url", logger.String("url", b.URL), logger.Error(err))
		a.setMessage(MessageError, "Could not open "+b.URL)
		return
	}
	a.setMessage(MessageInfo, "Opened "+b.Title)
}

func (a *App) yankURL() {
	b, ok := a.selectedBookmark()
	if !ok || a.focusedPane != PaneList {
		return
	}
	if err := a.copyURL(b.URL); err != nil {
		a.log.Warn("copy url", logger.Error(err))
		a.setMessage(MessageError, "Clipboard unavailable")
		return
	}
	a.setMessage(MessageSuccess, "Copied "+b.URL)
}

// cycleTag steps the tag filter through none, each tag in order, then none.
func (a *App) cycleTag() {
	tags := a.state.Tags()
	if len(tags) == 0 {
		a.setMessage(MessageWarning, "No tags yet")
		return
	}

	var next *string
	current := a.state.Query().ActiveTag
	switch {
	case current == nil:
		next = &tags[0]
	default:
		if i := slices.Index(tags, *current); i >= 0 && i+1 < len(tags) {
			next = &tags[i+1]
		}
	}

	if _, err := a.dispatch(state.SelectTag{Tag: next}); err == nil {
		a.listCursor = 0
	}
}

func (a *App) startDelete() {
	if a.focusedPane == PaneSidebar {
		item, ok := a.sidebarItem()
		if !ok || !item.IsFolder() {
			return
		}
		a.confirm = ConfirmState{IsFolder: true, ID: item.Node.Folder.ID, Name: item.Title()}
	} else {
		b, ok := a.selectedBookmark()
		if !ok {
			return
		}
		a.confirm = ConfirmState{ID: b.ID, Name: b.Title}
	}
	a.mode = ModeConfirmDelete
}

// startAddBookmark opens the bookmark modal prefilled from the tab provider.
// The target folder is the active folder, or the folder under the sidebar
// cursor when no folder is selected.
func (a App) startAddBookmark() (App, tea.Cmd) {
	var initial form.BookmarkDraft
	if id := a.targetFolder(); id != nil {
		initial.FolderID = *id
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	draft := form.Open(ctx, form.Options{
		Initial:      initial,
		Provider:     a.tabs,
		DefaultColor: a.defaultColor,
		Log:          a.log,
	})
	cancel()

	folder := ""
	if draft.FolderID != "" {
		folder = a.state.FolderLabel(draft.FolderID)
	}
	a.bookmarkForm.Load(draft, folder)
	a.mode = ModeAddBookmark
	return a, textinput.Blink
}

func (a App) startAddFolder() (App, tea.Cmd) {
	a.folderForm.Reset()
	if id := a.targetFolder(); id != nil {
		a.folderForm.ParentID = id
		a.folderForm.Parent = a.state.FolderLabel(*id)
	}
	a.folderForm.Input.Focus()
	a.mode = ModeAddFolder
	return a, textinput.Blink
}

func (a *App) submitBookmark() {
	draft := a.bookmarkForm.Collect()
	res, err := a.apply(state.AddBookmark{Params: draft.Params()})

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		a.bookmarkForm.Draft = draft
		a.bookmarkForm.Errors = verr.Fields
		return
	}
	if err != nil {
		a.setMessage(MessageError, err.Error())
		return
	}

	a.bookmarkForm.Reset()
	a.mode = ModeNormal
	a.setMessage(MessageSuccess, "Added "+res.Bookmark.Title)
}

func (a *App) submitFolder() {
	name := a.folderForm.Input.Value()
	res, err := a.apply(state.AddFolder{Params: model.NewFolderParams{
		Name:     name,
		ParentID: a.folderForm.ParentID,
	}})

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr.Fields))
		for _, field := range []string{model.FieldName, model.FieldParent} {
			if m, ok := verr.Fields[field]; ok {
				msgs = append(msgs, m)
			}
		}
		a.folderForm.Error = strings.Join(msgs, ", ")
		return
	}
	if err != nil {
		a.setMessage(MessageError, err.Error())
		return
	}

	a.folderForm.Reset()
	a.mode = ModeNormal
	a.setMessage(MessageSuccess, "Created folder "+res.Folder.Name)
}

// apply runs an action against the container with a bounded context.
func (a *App) apply(act state.Action) (state.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	return a.state.Apply(ctx, act)
}

// dispatch is apply with failures reported on the status line.
func (a *App) dispatch(act state.Action) (state.Result, error) {
	res, err := a.apply(act)
	if err != nil {
		a.setMessage(MessageError, err.Error())
	}
	return res, err
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

// targetFolder picks the folder new items go into.
func (a App) targetFolder() *string {
	if id := a.state.Query().ActiveFolder; id != nil {
		return id
	}
	if item, ok := a.sidebarItem(); ok && a.focusedPane == PaneSidebar {
		return item.ID()
	}
	return nil
}

func (a App) sidebarItem() (Item, bool) {
	items := a.Sidebar()
	if a.sidebarCursor < 0 || a.sidebarCursor >= len(items) {
		return Item{}, false
	}
	return items[a.sidebarCursor], true
}

func (a App) selectedBookmark() (model.Bookmark, bool) {
	bookmarks := a.Bookmarks()
	if a.listCursor < 0 || a.listCursor >= len(bookmarks) {
		return model.Bookmark{}, false
	}
	return bookmarks[a.listCursor], true
}

func (a App) cursor() int {
	if a.focusedPane == PaneSidebar {
		return a.sidebarCursor
	}
	return a.listCursor
}

func (a App) paneLen() int {
	if a.focusedPane == PaneSidebar {
		return len(a.Sidebar())
	}
	return len(a.Bookmarks())
}

// setCursor moves the focused pane's cursor, clamped to its rows.
func (a *App) setCursor(n int) {
	n = clamp(n, a.paneLen())
	if a.focusedPane == PaneSidebar {
		a.sidebarCursor = n
	} else {
		a.listCursor = n
	}
}

// clampCursors keeps both cursors on a row after the data changed.
func (a *App) clampCursors() {
	a.sidebarCursor = clamp(a.sidebarCursor, len(a.Sidebar()))
	a.listCursor = clamp(a.listCursor, len(a.Bookmarks()))
}

func clamp(n, length int) int {
	if n >= length {
		n = length - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

func deleteFolderMessage(name string, res model.DeleteResult) string {
	msg := "Deleted folder " + name
	if res.Bookmarks > 0 {
		msg += " and " + pluralize(res.Bookmarks, "bookmark")
	}
	return msg
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
