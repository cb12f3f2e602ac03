package hostsite

import (
	"html"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/markdown"
)

type tocItem struct {
	heading  markdown.Heading
	children []*tocItem
}

// tocMarkup renders h2 and h3 headings as nested lists of in-page anchors.
// An h3 before any h2 is kept at the top level.
func tocMarkup(headings []markdown.Heading) string {
	var roots []*tocItem
	var last *tocItem
	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		item := &tocItem{heading: h}
		switch h.Level {
		case 2:
			roots = append(roots, item)
			last = item
		case 3:
			if last != nil {
				last.children = append(last.children, item)
			} else {
				roots = append(roots, item)
			}
		}
	}
	if len(roots) == 0 {
		return ""
	}
	var b strings.Builder
	writeTOC(&b, roots)
	return b.String()
}

func writeTOC(b *strings.Builder, items []*tocItem) {
	b.WriteString("<ul>")
	for _, it := range items {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(it.heading.ID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(it.heading.Text))
		b.WriteString("</a>")
		if len(it.children) > 0 {
			writeTOC(b, it.children)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}
