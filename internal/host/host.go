// Package host defines the per-page render context a documentation build pipeline
// hands to the translator, and the navigation producer it exposes.
package host

import (
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/themecfg"
)

// ToctreeOptions scopes a navigation request.
type ToctreeOptions struct {
	// MaxDepth limits nesting; -1 means unbounded.
	MaxDepth      int
	IncludeHidden bool
	// Collapse expands only the branch containing the current page.
	Collapse bool
	// TitlesOnly omits in-page section headings.
	TitlesOnly bool
}

// ToctreeFunc renders a navigation scope as an HTML list fragment.
type ToctreeFunc func(opts ToctreeOptions) (string, error)

// Info names the host pipeline for build provenance.
type Info struct {
	Name    string
	Version string
}

// Context is everything the host knows about the page being rendered.
type Context struct {
	PageName string
	RootPage string
	Title    string
	Body     string
	Meta     map[string]any
	// TOC is the page's own heading outline as a nested list fragment.
	TOC         string
	Locale      string
	SiteTitle   string
	Author      string
	Copyright   string
	CSSFiles    []string
	ScriptFiles []string
	LastUpdated string
	Encoding    string
	Toctree     ToctreeFunc
	// Vars holds the remaining host variables; theme overrides use the theme_ prefix.
	Vars themecfg.Overrides
}

// Validate reports the first missing required field.
func (c *Context) Validate() error {
	if c == nil {
		return errors.HostContextError("host context is nil").Build()
	}
	missing := ""
	switch {
	case c.PageName == "":
		missing = "page_name"
	case c.RootPage == "":
		missing = "root_page"
	case c.Toctree == nil:
		missing = "toctree"
	}
	if missing != "" {
		return errors.HostContextError("host context is missing a required field").
			WithContext("field", missing).
			WithContext("page", c.PageName).
			Build()
	}
	return nil
}
