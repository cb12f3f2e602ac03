package build

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/hostsite"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
	"git.home.luguber.info/inful/themebridge/internal/observability"
	"git.home.luguber.info/inful/themebridge/internal/render"
	"git.home.luguber.info/inful/themebridge/internal/search"
	"git.home.luguber.info/inful/themebridge/internal/theme"
	"git.home.luguber.info/inful/themebridge/internal/translate"
)

// Stage names used for logging and metrics.
const (
	StageTheme    = "theme"
	StageDiscover = "discover"
	StageRender   = "render"
	StageStatic   = "static"
	StageAssets   = "assets"
	StageSearch   = "search"
)

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger handed to the site and translation session.
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// WithBuildTime fixes the build date written into pages.
func WithBuildTime(t time.Time) Option { return func(b *Builder) { b.buildTime = t } }

// Builder executes builds for one configuration. A Builder may run repeatedly
// but not concurrently.
type Builder struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	logger    *slog.Logger
	buildTime time.Time
}

// New returns a builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// run carries the state of one build between stages.
type run struct {
	report  *Report
	outDir  string
	theme   *theme.Handle
	site    *hostsite.Site
	session *translate.Session
	bridge  *render.Bridge
	index   *search.Index
	feed    *orderedIndexer
}

// Run executes the complete build pipeline.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{ID: uuid.NewString(), StartTime: time.Now()}
	ctx = observability.WithBuildID(ctx, report.ID)

	if b.cfg == nil {
		report.finish(StatusFailed)
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return report, errors.ConfigError("config required").Build()
	}

	r := &run{report: report, outDir: b.cfg.Resolve(b.cfg.OutputDir)}
	report.OutputDir = r.outDir
	report.Workers = b.workers()

	stages := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{StageTheme, b.loadTheme},
		{StageDiscover, b.discover},
		{StageRender, b.renderPages},
		{StageStatic, b.renderStatic},
		{StageAssets, b.publishAssets},
		{StageSearch, b.writeSearchIndex},
	}
	defer func() {
		if r.session != nil {
			_ = r.session.Close()
		}
	}()

	observability.InfoContext(ctx, "Build started", logfields.Path(r.outDir), logfields.Workers(report.Workers))
	for _, st := range stages {
		if err := b.stage(ctx, st.name, r, st.fn); err != nil {
			return b.fail(ctx, report, err)
		}
	}

	status := StatusSuccess
	if report.Failures > 0 || report.Warnings > 0 {
		status = StatusWarning
	}
	report.finish(status)
	if status == StatusWarning {
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeWarning)
	} else {
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	}
	b.recorder.ObserveBuildDuration(report.Duration)

	observability.InfoContext(ctx, "Build finished",
		slog.String("status", string(status)),
		logfields.Pages(report.Pages),
		slog.Int("failures", report.Failures),
		slog.Int("warnings", report.Warnings),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

func (b *Builder) stage(ctx context.Context, name string, r *run, fn func(context.Context, *run) error) error {
	if err := ctx.Err(); err != nil {
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}
	start := time.Now()
	err := fn(observability.WithStage(ctx, name), r)
	b.recorder.ObserveStageDuration(name, time.Since(start))
	switch {
	case err == nil:
		b.recorder.IncStageResult(name, metrics.ResultSuccess)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		b.recorder.IncStageResult(name, metrics.ResultFailed)
	}
	return err
}

func (b *Builder) fail(ctx context.Context, report *Report, err error) (*Report, error) {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		report.finish(StatusCanceled)
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		observability.WarnContext(ctx, "Build canceled")
		return report, err
	}
	report.finish(StatusFailed)
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	b.recorder.ObserveBuildDuration(report.Duration)
	observability.ErrorContext(ctx, "Build failed", logfields.Error(err))
	return report, err
}

func (b *Builder) workers() int {
	if b.cfg != nil && b.cfg.Build.Workers > 0 {
		return b.cfg.Build.Workers
	}
	return runtime.NumCPU()
}

func (b *Builder) loadTheme(ctx context.Context, r *run) error {
	h, err := LoadTheme(b.cfg)
	if err != nil {
		return err
	}
	r.theme = h
	r.report.Theme = h.Name
	observability.DebugContext(ctx, "Theme loaded", logfields.Theme(h.Name), slog.Any("dirs", h.Dirs()))
	return nil
}

func (b *Builder) discover(ctx context.Context, r *run) error {
	opts := []hostsite.Option{hostsite.WithLogger(observability.Logger(ctx, b.logger))}
	if !b.buildTime.IsZero() {
		opts = append(opts, hostsite.WithBuildTime(b.buildTime))
	}
	site, err := hostsite.Open(b.cfg, opts...)
	if err != nil {
		return err
	}
	r.site = site
	r.report.Pages = len(site.Pages())
	r.report.Warnings = site.Warnings()

	sessionOpts := []translate.Option{
		translate.WithID(r.report.ID),
		translate.WithHostInfo(site.Info()),
		translate.WithRecorder(b.recorder),
		translate.WithLogger(b.logger),
	}
	if b.cfg.Search.Enabled {
		r.index = search.New(search.DefaultConfig(b.cfg.Site.Locale))
		urls := make([]string, 0, r.report.Pages)
		for _, p := range site.Pages() {
			urls = append(urls, p.URL())
		}
		r.feed = newOrderedIndexer(r.index, urls)
		sessionOpts = append(sessionOpts, translate.WithIndexer(r.feed))
	}
	r.session, err = translate.NewSession(r.theme, sessionOpts...)
	if err != nil {
		return err
	}
	env, err := render.NewEnvironment(r.theme)
	if err != nil {
		return err
	}
	r.bridge = render.NewBridge(env, r.session.Translator(), b.recorder, b.logger)

	if b.cfg.Build.Clean {
		return cleanOutput(r.outDir)
	}
	return nil
}

func (b *Builder) renderPages(ctx context.Context, r *run) error {
	b.recorder.SetRenderWorkers(r.report.Workers)
	defer b.recorder.SetRenderWorkers(0)

	var failures atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.report.Workers)
	for _, p := range r.site.Pages() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hc, err := r.site.Context(p.Name, host.PageTemplate)
			if err != nil {
				return err
			}
			out, rerr := r.bridge.RenderPage(gctx, host.PageTemplate, hc)
			if rerr != nil {
				failures.Add(1)
			}
			return writeFile(r.outDir, p.OutputPath(), []byte(out))
		})
	}
	err := g.Wait()
	r.report.Failures += int(failures.Load())
	if err != nil || r.feed == nil {
		return err
	}
	if err := r.feed.flush(); err != nil {
		return errors.WrapError(err, errors.CategorySearch, "feed search index").Build()
	}
	return nil
}

func (b *Builder) renderStatic(ctx context.Context, r *run) error {
	for _, name := range r.theme.StaticTemplates {
		hc, err := r.site.Context(r.site.RootPage(), name)
		if err != nil {
			return err
		}
		out, rerr := r.bridge.RenderStatic(ctx, name, hc)
		if rerr != nil {
			r.report.Failures++
		}
		if err := writeFile(r.outDir, name, []byte(out)); err != nil {
			return err
		}
		r.report.StaticTemplates++
	}
	return nil
}

func (b *Builder) publishAssets(ctx context.Context, r *run) error {
	assets, err := r.theme.StaticAssets(".md", ".markdown")
	if err != nil {
		return errors.WrapError(err, errors.CategoryTheme, "list theme assets").
			WithContext("theme", r.theme.Name).
			Build()
	}
	for _, a := range assets {
		if err := copyFromFS(a.FS, a.Path, r.outDir, a.Path); err != nil {
			return err
		}
	}
	docs := os.DirFS(r.site.DocsDir())
	for _, rel := range r.site.Assets() {
		if err := copyFromFS(docs, rel, r.outDir, rel); err != nil {
			return err
		}
	}
	r.report.Assets = len(assets) + len(r.site.Assets())
	observability.DebugContext(ctx, "Assets published", slog.Int("theme", len(assets)), slog.Int("docs", len(r.site.Assets())))
	return nil
}

func (b *Builder) writeSearchIndex(_ context.Context, r *run) error {
	if r.index == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := r.index.WriteJSON(&buf); err != nil {
		return errors.WrapError(err, errors.CategorySearch, "encode search index").Build()
	}
	r.report.SearchEntries = r.index.Len()
	b.recorder.IncSearchEntries(r.index.Len())
	return writeFile(r.outDir, search.IndexPath, buf.Bytes())
}
