// Package picker is the small result chooser shown when a quick search
// has more than one match.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/search"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Underline(true)
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	folderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	favoriteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// rowHeight is the number of lines one result takes.
const rowHeight = 2

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("j", "down", "ctrl+n")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
	Open:   key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Picker lets the user choose one search result.
type Picker struct {
	results   []search.SearchResult
	query     string
	cursor    int
	offset    int // first visible result
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over results, which are shown in order.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			p.cancelled = true
			return p, tea.Quit
		case key.Matches(msg, keys.Open):
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit
		case key.Matches(msg, keys.Down):
			p.cursor++
		case key.Matches(msg, keys.Up):
			p.cursor--
		case key.Matches(msg, keys.Top):
			p.cursor = 0
		case key.Matches(msg, keys.Bottom):
			p.cursor = len(p.results) - 1
		}
	}

	p.clamp()
	return p, nil
}

// pageSize is how many results fit between header and footer.
func (p Picker) pageSize() int {
	return max(1, (p.height-4)/rowHeight)
}

func (p *Picker) clamp() {
	p.cursor = min(max(p.cursor, 0), max(len(p.results)-1, 0))
	page := p.pageSize()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+page {
		p.offset = p.cursor - page + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := min(p.offset+p.pageSize(), len(p.results))
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i))
	}

	b.WriteString("\n")
	footer := "j/k: move  Enter: open  q/Esc: cancel"
	if len(p.results) > end-p.offset {
		footer = fmt.Sprintf("%d-%d of %d  %s", p.offset+1, end, len(p.results), footer)
	}
	b.WriteString(footerStyle.Render(footer))
	return b.String()
}

func (p Picker) renderRow(i int) string {
	r := p.results[i]

	cursor := "  "
	style := titleStyle
	if i == p.cursor {
		cursor = "> "
		style = activeStyle
	}

	star := " "
	if r.Bookmark.IsFavorite {
		star = favoriteStyle.Render("★")
	}

	line := cursor + star + " " + highlight(r.Bookmark.Title, r.TitleIndexes, style)
	if r.Folder != "" {
		line += "  " + folderStyle.Render(r.Folder)
	}
	return line + "\n    " + urlStyle.Render(r.Bookmark.URL) + "\n"
}

// highlight renders the runes at idx with matchStyle and the rest with base.
func highlight(s string, idx []int, base lipgloss.Style) string {
	if len(idx) == 0 {
		return base.Render(s)
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}

	var b, run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(base.Render(run.String()))
			run.Reset()
		}
	}
	for i, r := range []rune(s) {
		if hit[i] {
			flush()
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

// SelectedBookmark returns the chosen bookmark, or nil if cancelled.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return nil
	}
	return p.results[p.cursor].Bookmark
}

// Cancelled reports whether the picker was closed without a choice.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
