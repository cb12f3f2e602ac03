package hostsite

import (
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/themebridge/internal/frontmatter"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/markdown"
)

// Page is one discovered Markdown document.
type Page struct {
	// Name is the slash-separated source path without extension, e.g. "guide/intro".
	Name string
	// Source is the slash-separated path relative to the docs directory.
	Source   string
	Title    string
	Meta     map[string]any
	Hidden   bool
	Body     string
	TOC      string
	Headings []markdown.Heading
	ModTime  time.Time

	raw []byte
}

// URL returns the page's directory-style URL.
func (p *Page) URL() string { return host.PageURL(p.Name) }

// OutputPath returns the file the page is written to.
func (p *Page) OutputPath() string { return host.OutputPath(p.Name) }

func isMarkdownFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

func pageName(source string) string {
	return strings.TrimSuffix(source, path.Ext(source))
}

// resolveTitle picks the frontmatter title, then the first h1, then a name
// derived from the file.
func resolveTitle(p *Page) string {
	if t := frontmatter.Title(p.Meta); t != "" {
		return t
	}
	for _, h := range p.Headings {
		if h.Level == 1 && strings.TrimSpace(h.Text) != "" {
			return strings.TrimSpace(h.Text)
		}
	}
	base := path.Base(p.Name)
	if base == host.IndexName {
		dir := path.Dir(p.Name)
		if dir == "." {
			return "Home"
		}
		base = path.Base(dir)
	}
	return prettify(base)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// prettify turns a file or directory name into a title.
func prettify(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

// relativeURL returns a link from one directory-style page URL to another.
func relativeURL(from, to string) string {
	out := strings.Repeat("../", strings.Count(from, "/")) + to
	if out == "" {
		return "./"
	}
	return out
}
