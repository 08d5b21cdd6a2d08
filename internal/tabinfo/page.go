package tabinfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxPageSize = 2 * 1024 * 1024

// PageFetcher reads the title and icon link of a web page.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a fetcher with the given per-request timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads rawURL once and extracts its metadata. Relative icon
// links are resolved against the final (post-redirect) page URL.
func (p *PageFetcher) Fetch(ctx context.Context, rawURL string) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Info{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; popmark/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return Info{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	info := Info{
		URL:   rawURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("link[rel~='icon']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if icon := resolveURL(resp.Request.URL, href); icon != "" {
			info.Favicon = icon
			return false
		}
		return true
	})

	return info, nil
}

func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	// Skip data URIs and javascript:
	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "javascript:") {
		return ""
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	return base.ResolveReference(refURL).String()
}
