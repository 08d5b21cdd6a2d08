// Package tabinfo answers "what page is the user looking at" for the
// bookmark form: a fixed value, a value pushed by a browser helper, the
// clipboard, or the page itself.
package tabinfo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/nikbrunner/popmark/internal/model"
)

// ErrNoURL is returned when a provider has nothing that looks like a URL.
var ErrNoURL = errors.New("no URL available")

// Info describes the active tab. Empty fields are unknown.
type Info struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Favicon string `json:"favicon"`
}

// IsZero reports whether nothing is known about the tab.
func (i Info) IsZero() bool {
	return i.URL == "" && i.Title == "" && i.Favicon == ""
}

// Provider returns information about the active tab.
type Provider interface {
	ActiveTab(ctx context.Context) (Info, error)
}

// Static always returns the same Info.
type Static Info

// ActiveTab implements Provider.
func (s Static) ActiveTab(ctx context.Context) (Info, error) {
	return Info(s), nil
}

// Mailbox holds the last tab pushed by a browser helper.
type Mailbox struct {
	mu   sync.RWMutex
	info Info
}

// Put replaces the stored tab.
func (m *Mailbox) Put(info Info) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = info
}

// ActiveTab implements Provider. It returns empty Info when nothing was put.
func (m *Mailbox) ActiveTab(ctx context.Context) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info, nil
}

// Clipboard reads a URL from the system clipboard.
type Clipboard struct {
	// Read defaults to clipboard.ReadAll.
	Read func() (string, error)
}

// ActiveTab implements Provider. The clipboard must hold a single URL;
// scheme-less hosts such as "go.dev" are accepted and normalized.
func (c Clipboard) ActiveTab(ctx context.Context) (Info, error) {
	read := c.Read
	if read == nil {
		read = clipboard.ReadAll
	}

	text, err := read()
	if err != nil {
		return Info{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, " \t\n") {
		return Info{}, ErrNoURL
	}

	u, err := model.NormalizeURL(text)
	if err != nil {
		return Info{}, ErrNoURL
	}
	return Info{URL: u}, nil
}

// Enriched fills a missing title or favicon by fetching the page.
type Enriched struct {
	Base    Provider
	Fetcher *PageFetcher
}

// ActiveTab implements Provider. A failed fetch is not an error: the base
// info is returned with the favicon derived from the URL.
func (e Enriched) ActiveTab(ctx context.Context) (Info, error) {
	info, err := e.Base.ActiveTab(ctx)
	if err != nil || info.URL == "" {
		return info, err
	}

	if info.Title == "" || info.Favicon == "" {
		page, err := e.Fetcher.Fetch(ctx, info.URL)
		if err == nil {
			if info.Title == "" {
				info.Title = page.Title
			}
			if info.Favicon == "" {
				info.Favicon = page.Favicon
			}
		}
	}

	if info.Favicon == "" {
		info.Favicon = model.FaviconFor(info.URL)
	}
	return info, nil
}
