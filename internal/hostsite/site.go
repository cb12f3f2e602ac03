package hostsite

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/frontmatter"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
	"git.home.luguber.info/inful/themebridge/internal/markdown"
	"git.home.luguber.info/inful/themebridge/internal/version"
)

// Name identifies this pipeline in build provenance.
const Name = "themebridge-site"

// BuildDateLayout formats the build date handed to templates.
const BuildDateLayout = "2006-01-02"

// Option configures a Site.
type Option func(*Site)

// WithBuildTime fixes the build date reported to templates.
func WithBuildTime(t time.Time) Option { return func(s *Site) { s.buildTime = t } }

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(s *Site) { s.logger = l } }

// Site is a loaded documentation directory.
type Site struct {
	cfg       *config.Config
	docsDir   string
	pages     map[string]*Page
	bySource  map[string]string
	order     []string
	assets    []string
	outline   []*Entry
	buildTime time.Time
	logger    *slog.Logger
	warnings  int
}

// Open discovers and renders every page under the configured docs directory.
func Open(cfg *config.Config, opts ...Option) (*Site, error) {
	s := &Site{
		cfg:       cfg,
		docsDir:   cfg.Resolve(cfg.DocsDir),
		pages:     map[string]*Page{},
		bySource:  map[string]string{},
		buildTime: time.Now(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.discover(); err != nil {
		return nil, err
	}
	if _, ok := s.pages[cfg.Site.RootPage]; !ok {
		return nil, errors.NotFoundError("root page not found").
			WithContext("page", cfg.Site.RootPage).
			WithContext("docs_dir", s.docsDir).
			Build()
	}
	for _, name := range s.order {
		if err := s.render(s.pages[name]); err != nil {
			return nil, err
		}
	}

	var err error
	if len(cfg.Nav) > 0 {
		s.outline, err = s.outlineFromNav(cfg.Nav)
		if err != nil {
			return nil, err
		}
	} else {
		s.outline = s.outlineFromDirs()
	}

	for _, name := range s.order {
		s.checkLinks(s.pages[name])
	}
	s.logger.Info("Site loaded",
		logfields.Path(s.docsDir),
		logfields.Pages(len(s.order)),
		slog.Int("assets", len(s.assets)),
		slog.Int("warnings", s.warnings))
	return s, nil
}

func (s *Site) discover() error {
	outputDir, _ := filepath.Abs(s.cfg.Resolve(s.cfg.OutputDir))

	info, err := os.Stat(s.docsDir)
	if err != nil || !info.IsDir() {
		return errors.NotFoundError("docs directory not found").
			WithContext("docs_dir", s.docsDir).
			Build()
	}

	sources := map[string]*Page{}
	err = filepath.WalkDir(s.docsDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == s.docsDir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(p); abs == outputDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.docsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !isMarkdownFile(rel) {
			s.assets = append(s.assets, rel)
			return nil
		}

		page, err := s.load(p, rel)
		if err != nil {
			return err
		}
		sources[rel] = page
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return err
		}
		return errors.WrapError(err, errors.CategoryFileSystem, "walk docs directory").
			WithContext("docs_dir", s.docsDir).
			Build()
	}

	names := map[string]bool{}
	for _, p := range sources {
		names[p.Name] = true
	}
	for _, p := range sources {
		// README pages stand in for a missing index.
		if strings.EqualFold(path.Base(p.Name), "readme") {
			index := path.Join(path.Dir(p.Name), host.IndexName)
			if !names[index] {
				names[index] = true
				delete(names, p.Name)
				p.Name = index
			}
		}
	}
	for src, p := range sources {
		if existing, ok := s.pages[p.Name]; ok {
			return errors.ValidationError("two sources map to the same page").
				WithContext("page", p.Name).
				WithContext("first", existing.Source).
				WithContext("second", src).
				Build()
		}
		s.pages[p.Name] = p
		s.bySource[src] = p.Name
		s.order = append(s.order, p.Name)
	}
	sortPageNames(s.order)
	return nil
}

func (s *Site) load(abs, rel string) (*Page, error) {
	raw, err := os.ReadFile(abs) //nolint:gosec // path comes from walking the docs directory
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read page").
			WithContext("path", rel).
			Build()
	}
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithContext("path", rel).
			Build()
	}
	p := &Page{
		Name:   pageName(rel),
		Source: rel,
		Meta:   meta,
		Hidden: frontmatter.Hidden(meta),
		raw:    body,
	}
	if info, err := os.Stat(abs); err == nil {
		p.ModTime = info.ModTime()
	}
	return p, nil
}

func (s *Site) render(p *Page) error {
	doc, err := markdown.Render(p.raw, markdown.Options{ResolveLink: s.resolver(p)})
	if err != nil {
		return errors.WrapError(err, errors.CategoryRender, "render markdown").
			WithContext("page", p.Name).
			Build()
	}
	p.Body = doc.HTML
	p.Headings = doc.Headings
	p.TOC = tocMarkup(doc.Headings)
	p.Title = resolveTitle(p)
	return nil
}

// resolver rewrites links to other pages into directory-style URLs relative to p.
func (s *Site) resolver(p *Page) func(string) string {
	from := p.URL()
	return func(dest string) string {
		target, frag := markdown.SplitFragment(dest)
		name, ok := s.bySource[path.Join(path.Dir(p.Source), target)]
		if !ok {
			return dest
		}
		href := relativeURL(from, host.PageURL(name))
		if frag != "" {
			href += "#" + frag
		}
		return href
	}
}

// checkLinks warns about links to pages and images that do not exist.
func (s *Site) checkLinks(p *Page) {
	for _, l := range markdown.ExtractLinks(p.raw) {
		if l.Kind == markdown.LinkKindAuto {
			continue
		}
		target, _ := markdown.SplitFragment(l.Destination)
		if target == "" || strings.HasPrefix(target, "/") || strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
			continue
		}
		resolved := path.Join(path.Dir(p.Source), target)
		switch {
		case markdown.IsDocumentLink(l.Destination):
			if _, ok := s.bySource[resolved]; ok {
				continue
			}
		case l.Kind == markdown.LinkKindImage:
			if s.hasAsset(resolved) {
				continue
			}
		default:
			continue
		}
		s.warnings++
		s.logger.Warn("Page links to a missing target",
			logfields.Page(p.Name),
			slog.String("target", l.Destination))
	}
}

func (s *Site) hasAsset(rel string) bool { return slices.Contains(s.assets, rel) }

// Context builds the host context for rendering template for the named page.
// Templates other than the page template get the page's site context without
// its content.
func (s *Site) Context(pagename, template string) (*host.Context, error) {
	p, ok := s.pages[pagename]
	if !ok {
		return nil, errors.NotFoundError("page not found").
			WithContext("page", pagename).
			Build()
	}
	hc := &host.Context{
		PageName:    p.Name,
		RootPage:    s.cfg.Site.RootPage,
		Locale:      s.cfg.Site.Locale,
		SiteTitle:   s.cfg.Site.Name,
		Author:      s.cfg.Site.Author,
		Copyright:   s.cfg.Site.Copyright,
		CSSFiles:    append([]string(nil), s.cfg.ExtraCSS...),
		ScriptFiles: append([]string(nil), s.cfg.ExtraJavaScript...),
		LastUpdated: s.buildTime.UTC().Format(BuildDateLayout),
		Encoding:    s.cfg.Site.Encoding,
		Toctree:     s.Toctree(p.Name),
		Vars:        s.cfg.Theme.Overrides(),
	}
	if template == host.PageTemplate {
		hc.Title = p.Title
		hc.Body = p.Body
		hc.Meta = p.Meta
		hc.TOC = p.TOC
	}
	return hc, nil
}

// Page returns the named page.
func (s *Site) Page(name string) (*Page, bool) {
	p, ok := s.pages[name]
	return p, ok
}

// Pages returns every page in build order.
func (s *Site) Pages() []*Page {
	out := make([]*Page, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.pages[name])
	}
	return out
}

// Outline returns the site's navigation outline.
func (s *Site) Outline() []*Entry { return s.outline }

// Assets lists non-Markdown files under the docs directory, slash-separated.
func (s *Site) Assets() []string { return append([]string(nil), s.assets...) }

// DocsDir returns the absolute or config-relative docs directory.
func (s *Site) DocsDir() string { return s.docsDir }

// RootPage returns the homepage name.
func (s *Site) RootPage() string { return s.cfg.Site.RootPage }

// Warnings counts broken links found while loading.
func (s *Site) Warnings() int { return s.warnings }

// Info names the pipeline for provenance.
func (s *Site) Info() host.Info { return host.Info{Name: Name, Version: version.Version} }

// sortPageNames orders pages with each directory's index first.
func sortPageNames(names []string) {
	key := func(n string) string {
		switch {
		case n == host.IndexName:
			return ""
		case path.Base(n) == host.IndexName:
			return path.Dir(n) + "/\x00"
		default:
			return n
		}
	}
	slices.SortFunc(names, func(a, b string) int { return strings.Compare(key(a), key(b)) })
}
