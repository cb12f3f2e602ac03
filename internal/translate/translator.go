package translate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/themebridge/internal/foundation"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
	"git.home.luguber.info/inful/themebridge/internal/navtree"
	"git.home.luguber.info/inful/themebridge/internal/observability"
	"git.home.luguber.info/inful/themebridge/internal/theme"
	"git.home.luguber.info/inful/themebridge/internal/themecfg"
	"git.home.luguber.info/inful/themebridge/internal/version"
)

// CopyrightPrefix precedes the host's copyright string.
const CopyrightPrefix = "Copyright &copy; "

// Navigation requests made for every page.
var (
	PrimaryNav = host.ToctreeOptions{MaxDepth: 2, IncludeHidden: false, Collapse: false, TitlesOnly: true}
	AllPages   = host.ToctreeOptions{MaxDepth: -1, IncludeHidden: true, Collapse: false, TitlesOnly: true}
)

// Translator converts host contexts into theme contexts. It holds no per-call
// state and is safe for concurrent use.
type Translator struct {
	theme    *theme.Handle
	indexer  Indexer
	indexMu  *sync.Mutex
	hostInfo host.Info
	recorder metrics.Recorder
	logger   *slog.Logger
	closed   *atomic.Bool
}

// translation carries the inputs of one Translate call through its steps.
type translation struct {
	hc       *host.Context
	template string
}

// Translate builds the theme context for one page and returns it together with the
// template to render. The page is fed to the session's indexer, if any.
func (t *Translator) Translate(ctx context.Context, hc *host.Context, template string) (*Context, string, error) {
	return t.run(ctx, hc, template, true)
}

// TranslateStatic is Translate without feeding the indexer, for templates rendered
// once per build in the context of an existing page.
func (t *Translator) TranslateStatic(ctx context.Context, hc *host.Context, template string) (*Context, string, error) {
	return t.run(ctx, hc, template, false)
}

// Theme returns the theme the translator targets.
func (t *Translator) Theme() *theme.Handle { return t.theme }

func (t *Translator) run(ctx context.Context, hc *host.Context, template string, feed bool) (*Context, string, error) {
	start := time.Now()
	out, name, err := t.translate(ctx, hc, template, feed)
	t.recorder.ObserveTranslateDuration(time.Since(start))
	if err != nil {
		t.recorder.IncTranslation(metrics.ResultFailed)
		return nil, "", err
	}
	t.recorder.IncTranslation(metrics.ResultSuccess)
	return out, name, nil
}

func (t *Translator) translate(ctx context.Context, hc *host.Context, template string, feed bool) (*Context, string, error) {
	if t.closed.Load() {
		return nil, "", errors.InternalError("translation session is closed").Build()
	}
	if err := hc.Validate(); err != nil {
		return nil, "", err
	}
	tr := translation{hc: hc, template: TemplateFor(template)}
	log := observability.Logger(observability.WithPage(ctx, hc.PageName, tr.template), t.logger)

	config := t.config(tr)

	root, primary, err := t.navigation(tr, PrimaryNav, metrics.NavPrimary)
	if err != nil {
		return nil, "", err
	}
	_, all, err := t.navigation(tr, AllPages, metrics.NavAll)
	if err != nil {
		return nil, "", err
	}
	if active := navtree.Active(root); active == nil {
		log.Debug("No active navigation entry", logfields.NavNodes(len(primary)))
	}

	page, err := t.page(tr)
	if err != nil {
		return nil, "", err
	}

	if feed && t.indexer != nil {
		if err := t.index(page); err != nil {
			return nil, "", err
		}
	}

	out := &Context{
		Config: config,
		Nav: Nav{
			Root:     &navtree.Node{Kind: navtree.KindSection, Children: root},
			Homepage: homepage(),
			Pages:    primary,
		},
		Pages:           all,
		Page:            page,
		BaseURL:         BaseURL,
		ExtraCSS:        hc.CSSFiles,
		ExtraJavaScript: hc.ScriptFiles,
		Provenance:      t.provenance(),
		BuildDate:       hc.LastUpdated,
		Encoding:        hc.Encoding,
	}
	log.Debug("Translated page", logfields.NavNodes(len(primary)), logfields.Pages(len(all)))
	return out, tr.template, nil
}

// config resolves theme options and pulls the keys that are site-level in the
// target schema out of the theme mapping.
func (t *Translator) config(tr translation) Config {
	themeOpts, extra := themecfg.Resolve(t.theme.Defaults, tr.hc.Vars, tr.hc.Locale)

	plugins := stringList(themeOpts["plugins"])
	delete(themeOpts, "plugins")
	analytics := themeOpts["google_analytics"]
	delete(themeOpts, "google_analytics")

	if t.indexer != nil && !slices.Contains(plugins, "search") {
		plugins = append(plugins, "search")
	}

	copyright := ""
	if tr.hc.Copyright != "" {
		copyright = CopyrightPrefix + tr.hc.Copyright
	}

	return Config{
		Theme:           themeOpts,
		Extra:           extra,
		Plugins:         plugins,
		GoogleAnalytics: analytics,
		Copyright:       copyright,
		SiteName:        tr.hc.SiteTitle,
		SiteAuthor:      tr.hc.Author,
		SiteURL:         foundation.None[string](),
		SiteDescription: foundation.None[string](),
		RepoURL:         foundation.None[string](),
		RepoName:        foundation.None[string](),
	}
}

func (t *Translator) navigation(tr translation, opts host.ToctreeOptions, scope metrics.NavScope) ([]*navtree.Node, []*navtree.Node, error) {
	markup, err := tr.hc.Toctree(opts)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryHostContext, "toctree producer failed").
			WithContext("page", tr.hc.PageName).
			WithContext("scope", string(scope)).
			Build()
	}
	roots, err := navtree.Parse(markup)
	if err != nil {
		return nil, nil, err
	}
	flat := navtree.Flatten(roots)
	t.recorder.ObserveNavNodes(scope, len(flat))
	return roots, flat, nil
}

func (t *Translator) page(tr translation) (*Page, error) {
	toc, err := navtree.ParseOutline(tr.hc.TOC)
	if err != nil {
		return nil, err
	}
	p := newPage()
	p.Title = tr.hc.Title
	p.Content = tr.hc.Body
	p.Meta = tr.hc.Meta
	p.URL = host.PageURL(tr.hc.PageName)
	p.IsHomepage = tr.hc.PageName == tr.hc.RootPage
	p.TOC = toc
	return p, nil
}

func (t *Translator) index(page *Page) error {
	t.indexMu.Lock()
	defer t.indexMu.Unlock()
	if err := t.indexer.AddEntry(page); err != nil {
		return errors.WrapError(err, errors.CategorySearch, "search indexer rejected page").
			WithContext("url", page.URL).
			Build()
	}
	return nil
}

func (t *Translator) provenance() string {
	themeVersion := t.theme.Version
	if themeVersion == "" {
		themeVersion = "unversioned"
	}
	hostName := t.hostInfo.Name
	if hostName == "" {
		hostName = "unknown host"
	}
	hostPart := strings.TrimSpace(hostName + " " + t.hostInfo.Version)
	return fmt.Sprintf("%s %s and %s, using themebridge %s", t.theme.Name, themeVersion, hostPart, version.Version)
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return append([]string(nil), l...)
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
