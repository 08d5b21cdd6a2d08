package tui

import "github.com/charmbracelet/lipgloss"

// Palette is the small set of colors every style derives from.
type Palette struct {
	Text    lipgloss.TerminalColor
	Subtle  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	OnMark  lipgloss.TerminalColor // text on an Accent background
	Star    lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
}

// DefaultPalette is grayscale with a single muted teal accent.
func DefaultPalette() Palette {
	return Palette{
		Text:    lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"},
		Subtle:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"},
		Accent:  lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"},
		Border:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"},
		OnMark:  lipgloss.Color("#1A1A1A"),
		Star:    lipgloss.AdaptiveColor{Light: "#AA8800", Dark: "#D7AF5F"},
		Success: lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"},
		Warning: lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"},
		Error:   lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"},
	}
}

// Styles holds every lipgloss style the App renders with.
type Styles struct {
	App        lipgloss.Style
	Breadcrumb lipgloss.Style
	Filter     lipgloss.Style // search and tag indicators next to the breadcrumb
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Modal      lipgloss.Style

	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Folder       lipgloss.Style
	Bookmark     lipgloss.Style
	URL          lipgloss.Style
	Tag          lipgloss.Style
	Favorite     lipgloss.Style
	Empty        lipgloss.Style

	Help       lipgloss.Style
	HintKey    lipgloss.Style
	HintDesc   lipgloss.Style
	HintLabel  lipgloss.Style
	FieldError lipgloss.Style

	// Messages is indexed by MessageType.
	Messages [4]lipgloss.Style
}

// DefaultStyles returns NewStyles(DefaultPalette()).
func DefaultStyles() Styles {
	return NewStyles(DefaultPalette())
}

// NewStyles derives the App styles from p.
func NewStyles(p Palette) Styles {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	pane := lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)

	return Styles{
		App:        lipgloss.NewStyle().Padding(1, 2, 0),
		Breadcrumb: fg(p.Subtle).PaddingLeft(1),
		Filter:     fg(p.Accent),
		Pane:       pane.BorderForeground(p.Border),
		PaneActive: pane.BorderForeground(p.Accent),
		Title:      fg(p.Accent).Bold(true),
		Modal:      lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(p.Accent).Padding(1, 2),

		Item:         fg(p.Text).PaddingLeft(1),
		ItemSelected: fg(p.OnMark).Background(p.Accent).PaddingLeft(1),
		Folder:       fg(p.Text),
		Bookmark:     fg(p.Text),
		URL:          fg(p.Subtle),
		Tag:          fg(p.Subtle),
		Favorite:     fg(p.Star),
		Empty:        fg(p.Subtle),

		Help:       fg(p.Subtle).Padding(1, 0),
		HintKey:    fg(p.Subtle),
		HintDesc:   fg(p.Subtle),
		HintLabel:  fg(p.Border),
		FieldError: fg(p.Error),

		Messages: [4]lipgloss.Style{
			MessageInfo:    fg(p.Accent).Bold(true),
			MessageSuccess: fg(p.Success).Bold(true),
			MessageWarning: fg(p.Warning).Bold(true),
			MessageError:   fg(p.Error).Bold(true),
		},
	}
}
