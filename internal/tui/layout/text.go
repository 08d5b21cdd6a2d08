package layout

import "github.com/charmbracelet/x/ansi"

// StripANSI removes escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Width is the number of terminal cells s occupies.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Fit truncates s, which may be styled, to width cells, ending in the
// ellipsis when anything was cut.
func (c Config) Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, c.Ellipsis)
}

// FitAffixed fits prefix+text+suffix into width, cutting only text as long
// as prefix, suffix and the ellipsis still fit.
func (c Config) FitAffixed(prefix, text, suffix string, width int) string {
	full := prefix + text + suffix
	if Width(full) <= width {
		return full
	}
	room := width - Width(prefix) - Width(suffix)
	if room <= Width(c.Ellipsis) {
		return c.Fit(full, width)
	}
	return prefix + ansi.Truncate(text, room, c.Ellipsis) + suffix
}

// FitLeft cuts from the left instead, so the end of a folder path stays
// readable.
func (c Config) FitLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := Width(s)
	if w <= width {
		return s
	}
	if width <= Width(c.Ellipsis) {
		return ansi.Truncate(c.Ellipsis, width, "")
	}
	return ansi.TruncateLeft(s, w-width+Width(c.Ellipsis), c.Ellipsis)
}
