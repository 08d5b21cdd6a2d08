// Package layout sizes the TUI panes and dialogs for a terminal.
package layout

// Config holds every sizing rule the TUI uses.
type Config struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig

	// Ellipsis marks truncated text.
	Ellipsis string
}

// PaneConfig sizes the folder sidebar and the bookmark list.
type PaneConfig struct {
	// ChromeHeight is the number of terminal rows not available to pane
	// content: breadcrumb, pane borders, help bar and message line.
	ChromeHeight int
	MinHeight    int

	SidebarPercent int
	MinSidebar     int
	MaxSidebar     int

	// ChromeWidth covers app padding and the borders of both panes.
	ChromeWidth int
	MinList     int

	// Padding is the border and padding inside one pane.
	Padding int
}

// ModalConfig sizes dialogs and the help overlay.
type ModalConfig struct {
	WidthPercent int
	MinWidth     int
	MaxWidth     int

	HelpKeyWidth  int
	HelpDescWidth int
}

// InputConfig limits the text inputs.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	TagsCharLimit   int
	SearchCharLimit int

	FieldWidth  int
	SearchWidth int
}

// DefaultConfig returns the sizes used by the TUI.
func DefaultConfig() Config {
	return Config{
		Pane: PaneConfig{
			ChromeHeight:   7,
			MinHeight:      5,
			SidebarPercent: 30,
			MinSidebar:     20,
			MaxSidebar:     40,
			ChromeWidth:    8,
			MinList:        24,
			Padding:        4,
		},
		Modal: ModalConfig{
			WidthPercent:  40,
			MinWidth:      50,
			MaxWidth:      80,
			HelpKeyWidth:  22,
			HelpDescWidth: 24,
		},
		Input: InputConfig{
			TitleCharLimit:  100,
			URLCharLimit:    500,
			TagsCharLimit:   200,
			SearchCharLimit: 100,
			FieldWidth:      40,
			SearchWidth:     30,
		},
		Ellipsis: "...",
	}
}

// Panes are the outer sizes of the two panes.
type Panes struct {
	Sidebar int
	List    int
	Height  int
}

// Split divides the terminal between sidebar and list. The sidebar takes
// its share clamped to [MinSidebar, MaxSidebar]; the list gets the rest.
func (c PaneConfig) Split(width, height int) Panes {
	sidebar := min(max(width*c.SidebarPercent/100, c.MinSidebar), c.MaxSidebar)
	return Panes{
		Sidebar: sidebar,
		List:    max(width-c.ChromeWidth-sidebar, c.MinList),
		Height:  max(height-c.ChromeHeight, c.MinHeight),
	}
}

// ContentWidth is the room for text inside a pane of the given width.
func (c PaneConfig) ContentWidth(pane int) int {
	return max(pane-c.Padding, 0)
}

// Width returns the dialog width for the terminal: WidthPercent of it,
// clamped to [MinWidth, MaxWidth] and never wider than the terminal
// minus a two-column margin on each side.
func (c ModalConfig) Width(terminal int) int {
	w := min(max(terminal*c.WidthPercent/100, c.MinWidth), c.MaxWidth)
	return max(min(w, terminal-4), 1)
}

// Window returns the half-open range of rows to draw so that cursor is
// visible, keeping it centered once the list scrolls.
func Window(cursor, total, rows int) (start, end int) {
	rows = max(rows, 1)
	if total <= rows {
		return 0, total
	}
	start = min(max(cursor-rows/2, 0), total-rows)
	return start, start + rows
}
