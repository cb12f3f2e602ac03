package hostsite

import (
	"html"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/host"
)

// currentClass marks the current page's list item and its ancestors.
const currentClass = "current"

// Toctree returns the navigation producer for the page named current.
func (s *Site) Toctree(current string) host.ToctreeFunc {
	return func(opts host.ToctreeOptions) (string, error) {
		w := toctreeWriter{site: s, current: current, from: host.PageURL(current), opts: opts}
		return w.list(s.outline, 1), nil
	}
}

type toctreeWriter struct {
	site    *Site
	current string
	from    string
	opts    host.ToctreeOptions
}

func (w *toctreeWriter) list(entries []*Entry, depth int) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(w.item(e, depth))
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ul>" + b.String() + "</ul>"
}

func (w *toctreeWriter) expandable(depth int) bool {
	return w.opts.MaxDepth <= 0 || depth < w.opts.MaxDepth
}

func (w *toctreeWriter) item(e *Entry, depth int) string {
	if e.Hidden && !w.opts.IncludeHidden {
		return ""
	}
	current := e.contains(w.current)

	var href, nested string
	switch {
	case e.IsSection():
		first := w.firstVisible(e)
		if first == nil {
			return ""
		}
		href = w.href(first)
		if w.expandable(depth) && (!w.opts.Collapse || current) {
			nested = w.list(e.Children, depth+1)
		}
	case e.URL != "":
		href = e.URL
	default:
		href = w.href(e)
		if !w.opts.TitlesOnly && e.Page == w.current && w.expandable(depth) {
			nested = w.sections(e.Page)
		}
	}

	var b strings.Builder
	b.WriteString("<li")
	if current {
		b.WriteString(` class="` + currentClass + `"`)
	}
	b.WriteString(`><a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(e.Title))
	b.WriteString("</a>")
	b.WriteString(nested)
	b.WriteString("</li>")
	return b.String()
}

// sections lists the page's h2 headings as in-page anchors.
func (w *toctreeWriter) sections(page string) string {
	p := w.site.pages[page]
	var b strings.Builder
	for _, h := range p.Headings {
		if h.Level != 2 || h.ID == "" {
			continue
		}
		b.WriteString(`<li><a href="#` + html.EscapeString(h.ID) + `">` + html.EscapeString(h.Text) + "</a></li>")
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ul>" + b.String() + "</ul>"
}

func (w *toctreeWriter) firstVisible(e *Entry) *Entry {
	for _, c := range e.Children {
		if c.Hidden && !w.opts.IncludeHidden {
			continue
		}
		if !c.IsSection() {
			return c
		}
		if f := w.firstVisible(c); f != nil {
			return f
		}
	}
	return nil
}

func (w *toctreeWriter) href(e *Entry) string {
	if e.URL != "" {
		return e.URL
	}
	return relativeURL(w.from, host.PageURL(e.Page))
}
