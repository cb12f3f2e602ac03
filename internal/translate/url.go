package translate

import "git.home.luguber.info/inful/themebridge/internal/host"

const (
	// MainTemplate is the theme template every page renders with.
	MainTemplate = "main.html"
	// BaseURL is the base every page context carries; theme URLs are page-relative.
	BaseURL = "."
)

// TemplateFor maps a host template name to the theme template to render.
func TemplateFor(hostTemplate string) string {
	if hostTemplate == host.PageTemplate {
		return MainTemplate
	}
	return hostTemplate
}
