// Package form holds the add-bookmark draft shared by the TUI, the CLI and
// the HTTP API.
package form

import (
	"context"
	"strings"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/tabinfo"
)

// BookmarkDraft is an unvalidated bookmark being edited.
type BookmarkDraft struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	FolderID    string `json:"folderId"`
	Favicon     string `json:"favicon"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Tags        string `json:"tags"` // comma separated

	// derived is true while Favicon follows the URL.
	derived bool
}

// Options controls how a draft is opened.
type Options struct {
	// Initial values. Non-empty fields are kept as given.
	Initial BookmarkDraft
	// Provider prefills empty url, title and favicon. May be nil.
	Provider tabinfo.Provider
	// Color used when Initial.Color is empty. Defaults to model.DefaultColor.
	DefaultColor string
	Log          logger.Logger
}

// Open creates a draft. A provider error is logged and the initial values
// are used as they are.
func Open(ctx context.Context, opts Options) BookmarkDraft {
	d := opts.Initial

	if opts.Provider != nil {
		info, err := opts.Provider.ActiveTab(ctx)
		if err != nil {
			if opts.Log != nil {
				opts.Log.Warn("active tab unavailable", logger.Error(err))
			}
		} else {
			d.URL = firstNonEmpty(d.URL, info.URL)
			d.Title = firstNonEmpty(d.Title, info.Title)
			d.Favicon = firstNonEmpty(d.Favicon, info.Favicon)
		}
	}

	if d.Color == "" {
		d.Color = firstNonEmpty(opts.DefaultColor, model.DefaultColor)
	}
	if d.Favicon == "" {
		d.SetURL(d.URL)
	}
	return d
}

// SetURL changes the URL. A favicon that was derived from the old URL is
// derived again; one set explicitly is kept.
func (d *BookmarkDraft) SetURL(raw string) {
	d.URL = raw
	if d.Favicon != "" && !d.derived {
		return
	}
	d.Favicon = ""
	d.derived = false
	if u, err := model.NormalizeURL(raw); err == nil {
		d.Favicon = model.FaviconFor(u)
		d.derived = true
	}
}

// Params converts the draft for model.Store.AddBookmark, which does the
// validation.
func (d BookmarkDraft) Params() model.NewBookmarkParams {
	return model.NewBookmarkParams{
		Title:       d.Title,
		URL:         d.URL,
		FolderID:    d.FolderID,
		Favicon:     d.Favicon,
		Color:       d.Color,
		Description: d.Description,
		Tags:        ParseTags(d.Tags),
	}
}

// ParseTags splits "a, b, c" into trimmed, non-empty, unique tags in input
// order.
func ParseTags(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// FormatTags joins tags for editing.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
