package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/tui/layout"
)

// renderView creates the complete two-pane view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeAddBookmark, ModeAddFolder, ModeConfirmDelete:
		return a.renderModal()
	}

	panes := a.layoutConfig.Pane.Split(a.width, a.height)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderSidebarPane(panes.Sidebar, panes.Height),
		a.renderListPane(panes.List, panes.Height),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderBreadcrumb(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderBreadcrumb renders the active folder path and filter indicators.
func (a App) renderBreadcrumb() string {
	q := a.state.Query()

	path := "popmark"
	if q.ActiveFolder != nil {
		path = a.state.Snapshot().FolderPathString(*q.ActiveFolder)
	}

	var filters []string
	if q.SearchQuery != "" {
		filters = append(filters, "/"+q.SearchQuery)
	}
	if q.ActiveTag != nil {
		filters = append(filters, "#"+*q.ActiveTag)
	}
	indicator := strings.Join(filters, " ")

	// Terminal width minus app padding (left=2, right=2) and the indicator
	availableWidth := a.width - 4
	if indicator != "" {
		availableWidth -= layout.Width(indicator) + 2
	}
	path = a.layoutConfig.FitLeft(path, availableWidth)

	line := a.styles.Breadcrumb.Render(path)
	if indicator != "" {
		line += "  " + a.styles.Filter.Render(indicator)
	}
	return line
}

// renderSidebarPane renders the folder tree.
func (a App) renderSidebarPane(width, height int) string {
	var content strings.Builder

	content.WriteString(a.styles.Title.Render("Folders") + "\n")

	items := a.Sidebar()
	counts := a.state.Counts()
	active := a.state.Query().ActiveFolder
	itemWidth := a.layoutConfig.Pane.ContentWidth(width)
	start, end := layout.Window(a.sidebarCursor, len(items), height-1)

	for i := start; i < end; i++ {
		item := items[i]
		isCursor := a.focusedPane == PaneSidebar && i == a.sidebarCursor
		isActive := activeRow(item, active)
		content.WriteString(a.renderFolderItem(item, counts, isCursor, isActive, itemWidth) + "\n")
	}

	return a.paneStyle(PaneSidebar).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func activeRow(item Item, active *string) bool {
	if item.Kind == ItemAll {
		return active == nil
	}
	return active != nil && *active == item.Node.Folder.ID
}

func (a App) renderFolderItem(item Item, counts map[string]int, isCursor, isActive bool, maxWidth int) string {
	prefix := item.Marker() + " "
	suffix := ""
	if item.IsFolder() {
		prefix = strings.Repeat("  ", item.Node.Depth) + prefix
		if n := counts[item.Node.Folder.ID]; n > 0 {
			suffix = " " + strconv.Itoa(n)
		}
	}

	line := a.layoutConfig.FitAffixed(prefix, item.Title(), suffix, maxWidth)

	switch {
	case isCursor:
		return a.styles.ItemSelected.Render(padRight(line, maxWidth))
	case isActive:
		return a.styles.Item.Bold(true).Foreground(a.styles.Title.GetForeground()).Render(line)
	default:
		return a.styles.Folder.PaddingLeft(1).Render(line)
	}
}

// renderListPane renders the bookmarks matching the active query.
func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	bookmarks := a.Bookmarks()
	content.WriteString(a.styles.Title.Render(fmt.Sprintf("Bookmarks (%d)", len(bookmarks))) + "\n")

	headerLines := 1
	if a.mode == ModeSearch {
		content.WriteString("/" + a.search.Input.View() + "\n")
		headerLines++
	}
	itemWidth := a.layoutConfig.Pane.ContentWidth(width)

	if len(bookmarks) == 0 {
		if a.state.Query().IsZero() {
			content.WriteString(a.styles.Empty.Render("(no bookmarks yet, press a to add one)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		}
	} else {
		start, end := layout.Window(a.listCursor, len(bookmarks), height-headerLines)
		showFolder := a.state.Query().ActiveFolder == nil

		for i := start; i < end; i++ {
			b := bookmarks[i]
			isCursor := a.focusedPane == PaneList && i == a.listCursor
			content.WriteString(a.renderBookmarkItem(b, showFolder, isCursor, itemWidth) + "\n")
		}
	}

	return a.paneStyle(PaneList).
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

func (a App) renderBookmarkItem(b model.Bookmark, showFolder, isCursor bool, maxWidth int) string {
	star := "  "
	if b.IsFavorite {
		star = "★ "
	}

	if isCursor {
		line := a.layoutConfig.FitAffixed(star, b.Title, "", maxWidth)
		return a.styles.ItemSelected.Render(padRight(line, maxWidth))
	}

	var line strings.Builder
	if b.IsFavorite {
		line.WriteString(a.styles.Favorite.Render(star))
	} else {
		line.WriteString(star)
	}
	line.WriteString(a.styles.Bookmark.Render(b.Title))
	if showFolder {
		line.WriteString("  " + a.styles.URL.Render(a.state.FolderLabel(b.FolderID)))
	}
	if len(b.Tags) > 0 {
		tags := make([]string, len(b.Tags))
		for i, tag := range b.Tags {
			tags[i] = "#" + tag
		}
		line.WriteString("  " + a.styles.Tag.Render(strings.Join(tags, " ")))
	}

	return a.styles.Item.Render(a.layoutConfig.Fit(line.String(), maxWidth))
}

func (a App) paneStyle(p Pane) lipgloss.Style {
	if a.focusedPane == p && a.mode == ModeNormal || p == PaneList && a.mode == ModeSearch {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

func padRight(s string, width int) string {
	if n := width - layout.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// renderModal renders the add and delete dialogs.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalStyle := a.styles.Modal.Width(a.layoutConfig.Modal.Width(a.width))

	switch a.mode {
	case ModeAddBookmark:
		f := a.bookmarkForm
		title.WriteString("Add Bookmark\n\n")

		content.WriteString("Folder: ")
		if f.Folder != "" {
			content.WriteString(f.Folder)
		} else {
			content.WriteString(a.styles.Empty.Render("(none)"))
		}
		content.WriteString(a.renderFieldError(f.Errors[model.FieldFolder]))
		content.WriteString("\n\n")

		content.WriteString("Title:\n")
		content.WriteString(f.Inputs[FieldTitle].View())
		content.WriteString(a.renderFieldError(f.Errors[model.FieldTitle]))
		content.WriteString("\n\n")

		content.WriteString("URL:\n")
		content.WriteString(f.Inputs[FieldURL].View())
		content.WriteString(a.renderFieldError(f.Errors[model.FieldURL]))
		content.WriteString("\n\n")

		content.WriteString("Tags (comma-separated):\n")
		content.WriteString(f.Inputs[FieldTags].View())

	case ModeAddFolder:
		title.WriteString("Add Folder\n\n")
		if a.folderForm.Parent != "" {
			content.WriteString("In: " + a.folderForm.Parent + "\n\n")
		}
		content.WriteString("Name:\n")
		content.WriteString(a.folderForm.Input.View())
		content.WriteString(a.renderFieldError(a.folderForm.Error))

	case ModeConfirmDelete:
		itemType := "Bookmark"
		if a.confirm.IsFolder {
			itemType = "Folder"
		}
		title.WriteString("Delete " + itemType + "?\n\n")
		content.WriteString(a.confirm.Name + "\n\n")
		if a.confirm.IsFolder {
			content.WriteString(a.styles.Help.Render("Subfolders and their bookmarks are affected too.") + "\n\n")
		}
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	body := a.styles.Title.Render(title.String()) + content.String()
	if hints := a.renderHints(a.localHints()); hints != "" {
		body += "\n\n" + hints
	}

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(body),
	)
}

func (a App) renderFieldError(msg string) string {
	if msg == "" {
		return ""
	}
	return "\n" + a.styles.FieldError.Render(msg)
}

// renderHelpBar renders the message line and the keyboard hints.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: Local (contextual) keyboard hints
	localHints := a.renderHints(a.localHints())
	if localHints != "" {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+localHints)
	}

	// Line 3: Global keyboard hints (only in normal mode)
	if a.mode == ModeNormal {
		globalHints := a.renderHints(a.globalHints())
		if globalHints != "" {
			lines = append(lines, a.styles.HintLabel.Render("Global ")+globalHints)
		}
	}

	return strings.Join(lines, "\n")
}

// messagePrefix marks the status line by severity.
var messagePrefix = [4]string{
	MessageSuccess: "✓ ",
	MessageWarning: "⚠ ",
	MessageError:   "✗ ",
}

// renderMessageLine renders the status message with a type prefix.
func (a App) renderMessageLine() string {
	return a.styles.Messages[a.messageType].Render(messagePrefix[a.messageType] + a.messageText)
}

// renderHelpOverlay renders the full key reference.
func (a App) renderHelpOverlay() string {
	// Brutalist style: no border, just raw columns
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var cols [2]string
	for i, groups := range a.keys.helpColumns() {
		sections := make([]string, len(groups))
		for j, g := range groups {
			sections[j] = a.renderHelpGroup(g)
		}
		cols[i] = strings.Join(sections, "\n")
	}
	cols[1] += "\n" + a.styles.Help.Render("[?/q/esc] close")

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpKeyWidth).Render(cols[0])
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpDescWidth).Render(cols[1])

	// Top-left aligned, brutalist style
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)),
	)
}
