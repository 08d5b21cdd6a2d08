// Package importer reads Netscape bookmark HTML as exported by browsers.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nikbrunner/popmark/internal/model"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns folders + bookmarks.
// Bookmarks outside any folder have an empty FolderID; ImportMerge places them.
// CreatedAt is left zero when ADD_DATE is missing.
func ParseHTMLBookmarks(r io.Reader) ([]model.Folder, []model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, err
	}

	p := &parser{last: -1}
	p.walk(doc)
	return p.folders, p.bookmarks, nil
}

// parser tracks where in the folder tree the walk is. An H3 names a folder
// whose contents are the next DL; a DD right after an A describes it.
type parser struct {
	folders   []model.Folder
	bookmarks []model.Bookmark

	stack   []string // open folder IDs, innermost last
	pending string   // folder waiting for its DL
	last    int      // bookmark a DD would describe, or -1
}

func (p *parser) parent() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H3:
			p.folder(n)
			return
		case atom.A:
			p.bookmark(n)
			return
		case atom.Dd:
			p.describe(n)
			// A DD can wrap the DL that follows it, so keep walking.
		case atom.Dl:
			p.list(n)
			return
		}
	}

	for c := range n.ChildNodes() {
		p.walk(c)
	}
}

func (p *parser) folder(n *html.Node) {
	p.last = -1
	name := text(n)
	if name == "" {
		return
	}

	f := model.Folder{ID: model.GenerateUUID(), Name: name}
	if parent := p.parent(); parent != "" {
		f.ParentID = &parent
	}
	p.folders = append(p.folders, f)
	p.pending = f.ID
}

func (p *parser) bookmark(n *html.Node) {
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return
	}

	title := text(n)
	if title == "" {
		title = href
	}

	p.bookmarks = append(p.bookmarks, model.Bookmark{
		ID:        model.GenerateUUID(),
		Title:     title,
		URL:       href,
		FolderID:  p.parent(),
		Favicon:   remoteIcon(attr(n, "icon_uri"), attr(n, "icon")),
		CreatedAt: unixAttr(n, "add_date"),
		Tags:      splitTags(attr(n, "tags")),
	})
	p.last = len(p.bookmarks) - 1
}

func (p *parser) describe(n *html.Node) {
	if p.last < 0 {
		return
	}
	p.bookmarks[p.last].Description = ownText(n)
	p.last = -1
}

func (p *parser) list(n *html.Node) {
	p.last = -1
	opened := p.pending != ""
	if opened {
		p.stack = append(p.stack, p.pending)
		p.pending = ""
	}

	for c := range n.ChildNodes() {
		p.walk(c)
	}

	if opened {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// remoteIcon prefers ICON_URI and ignores inline data: icons, which are too
// large to keep as a favicon URL.
func remoteIcon(uri, icon string) string {
	for _, v := range []string{uri, icon} {
		v = strings.TrimSpace(v)
		if v != "" && !strings.HasPrefix(v, "data:") {
			return v
		}
	}
	return ""
}

func unixAttr(n *html.Node, key string) time.Time {
	ts, err := strconv.ParseInt(attr(n, key), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func splitTags(s string) []string {
	var tags []string
	for t := range strings.SplitSeq(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// text is all text below n, trimmed.
func text(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// ownText is only the direct text children of n, trimmed.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := range n.ChildNodes() {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// attr looks up an attribute. The tokenizer lowercases keys.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
