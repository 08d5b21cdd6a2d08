package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Hint is one key and what it does, as shown under the panes.
type Hint struct {
	Key  string
	Desc string
}

// hint labels a binding with a short description for the help bar; the
// binding's own help text is used by the help overlay.
func hint(b key.Binding, desc string) Hint {
	return Hint{Key: b.Help().Key, Desc: desc}
}

var moveHint = Hint{Key: "j/k", Desc: "move"}

// localHints are the keys that matter in the current mode and pane.
// ModeConfirmDelete and ModeHelp draw their own.
func (a App) localHints() []Hint {
	k := a.keys
	switch a.mode {
	case ModeNormal:
		if a.focusedPane == PaneSidebar {
			return []Hint{
				moveHint, hint(k.SwitchPane, "list"),
				hint(k.Select, "select"), hint(k.Toggle, "fold"),
				hint(k.AddFolder, "folder"), hint(k.Delete, "del"),
			}
		}
		return []Hint{
			moveHint, hint(k.SwitchPane, "folders"),
			hint(k.Select, "open"), hint(k.YankURL, "yank"),
			hint(k.AddBookmark, "add"), hint(k.Favorite, "fav"), hint(k.Delete, "del"),
		}
	case ModeSearch:
		return []Hint{{"type", "search"}, {"enter", "keep"}, {"esc", "clear"}}
	case ModeAddBookmark:
		return []Hint{{"tab", "next"}, {"enter", "save"}, {"esc", "cancel"}}
	case ModeAddFolder:
		return []Hint{{"enter", "save"}, {"esc", "cancel"}}
	}
	return nil
}

// globalHints work from either pane in ModeNormal.
func (a App) globalHints() []Hint {
	k := a.keys
	return []Hint{
		hint(k.Search, "search"),
		hint(k.CycleTag, "tag"),
		hint(k.AllFolders, "all"),
		hint(k.ClearFilter, "clear"),
		hint(k.Help, "help"),
		hint(k.Quit, "quit"),
	}
}

// renderHints renders "key:desc key:desc" for the help bar.
func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders "Key desc  Key desc" for dialogs.
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// renderHelpGroup renders one titled column section of the help overlay
// from the bindings' help text.
func (a App) renderHelpGroup(g helpGroup) string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render(g.Title) + "\n")

	width := 0
	for _, k := range g.Keys {
		width = max(width, len(k.Help().Key))
	}
	for _, k := range g.Keys {
		h := k.Help()
		b.WriteString(h.Key + strings.Repeat(" ", width-len(h.Key)+2) + h.Desc + "\n")
	}
	return b.String()
}
