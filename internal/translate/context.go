package translate

import (
	"slices"

	"git.home.luguber.info/inful/themebridge/internal/foundation"
	"git.home.luguber.info/inful/themebridge/internal/navtree"
)

// Context is the translated template context.
type Context struct {
	Config          Config          `json:"config"`
	Nav             Nav             `json:"nav"`
	Pages           []*navtree.Node `json:"pages"`
	Page            *Page           `json:"page"`
	BaseURL         string          `json:"base_url"`
	ExtraCSS        []string        `json:"extra_css"`
	ExtraJavaScript []string        `json:"extra_javascript"`
	// Provenance names the theme, host and translator versions.
	Provenance string `json:"mkdocs_version"`
	BuildDate  string `json:"build_date_utc"`
	Encoding   string `json:"encoding"`
}

// Config is the resolved site and theme configuration.
type Config struct {
	Theme           map[string]any `json:"theme"`
	Extra           map[string]any `json:"extra"`
	Plugins         []string       `json:"plugins"`
	GoogleAnalytics any            `json:"google_analytics"`
	Copyright       string         `json:"copyright"`
	SiteName        string         `json:"site_name"`
	SiteAuthor      string         `json:"site_author"`

	// The host has no source for these; they are always None.
	SiteURL         foundation.Option[string] `json:"site_url"`
	SiteDescription foundation.Option[string] `json:"site_description"`
	RepoURL         foundation.Option[string] `json:"repo_url"`
	RepoName        foundation.Option[string] `json:"repo_name"`
}

// HasPlugin reports whether name is among the enabled plugins.
func (c Config) HasPlugin(name string) bool { return slices.Contains(c.Plugins, name) }

// Nav is the site navigation.
type Nav struct {
	// Root is an untitled Section whose children are the primary navigation items.
	Root     *navtree.Node   `json:"root"`
	Homepage *Page           `json:"homepage"`
	Pages    []*navtree.Node `json:"pages"`
}

// Items returns the top-level navigation items.
func (n Nav) Items() []*navtree.Node {
	if n.Root == nil {
		return nil
	}
	return n.Root.Children
}

// Page describes one page. The shape flags mirror navtree.Node so templates can
// treat pages and navigation entries alike.
type Page struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Meta       map[string]any    `json:"meta"`
	URL        string            `json:"url"`
	IsHomepage bool              `json:"is_homepage"`
	TOC        []*navtree.Anchor `json:"toc"`

	AbsURL       foundation.Option[string] `json:"abs_url"`
	CanonicalURL foundation.Option[string] `json:"canonical_url"`
	EditURL      foundation.Option[string] `json:"edit_url"`
	PreviousPage foundation.Option[string] `json:"previous_page"`
	NextPage     foundation.Option[string] `json:"next_page"`

	Active    bool `json:"active"`
	IsSection bool `json:"is_section"`
	IsPage    bool `json:"is_page"`
	IsLink    bool `json:"is_link"`
}

func newPage() *Page {
	return &Page{
		AbsURL:       foundation.None[string](),
		CanonicalURL: foundation.None[string](),
		EditURL:      foundation.None[string](),
		PreviousPage: foundation.None[string](),
		NextPage:     foundation.None[string](),
		Active:       true,
		IsPage:       true,
	}
}

// homepage is the fixed Nav.Homepage entry; the host cannot supply its content.
func homepage() *Page {
	p := newPage()
	p.Title = "Home"
	p.IsHomepage = true
	return p
}
