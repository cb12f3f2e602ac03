// Package preview serves a built site locally and rebuilds it when the docs,
// the theme overrides or the configuration change.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/themebridge/internal/build"
	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
)

// BuildErrorHeader is set on responses served from a stale build.
const BuildErrorHeader = "X-Themebridge-Build-Error"

// Options configures a Server.
type Options struct {
	// Addr is the listen address; empty selects ":<preview.port>".
	Addr   string
	Logger *slog.Logger
}

// Server is a preview server for one project.
type Server struct {
	mu            sync.RWMutex
	cfg           *config.Config
	addr          string
	logger        *slog.Logger
	registry      *prom.Registry
	recorder      metrics.Recorder
	status        *buildStatus
	router        chi.Router
	errs          *errors.HTTPErrorAdapter
	configChanged atomic.Bool
	ready         chan struct{}
}

// New prepares a preview server. Nothing is built or served until Run.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = fmt.Sprintf(":%d", cfg.Preview.Port)
	}
	reg := prom.NewRegistry()
	s := &Server{
		cfg:      cfg,
		addr:     opts.Addr,
		logger:   opts.Logger,
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
		status:   &buildStatus{},
		errs:     errors.NewHTTPErrorAdapter(opts.Logger),
		ready:    make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)
	r.Get("/healthz", s.handleHealth)
	r.Post("/rebuild", s.handleRebuild)
	r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	r.Handle("/*", http.HandlerFunc(s.handleSite))
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the bound listen address once Ready is closed.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Ready is closed once the initial build finished and the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Rebuild runs one build, reloading the configuration first when reload is set.
// The outcome is recorded for /healthz and error display.
func (s *Server) Rebuild(ctx context.Context, reload bool) error {
	cfg := s.config()
	if reload && cfg.Path() != "" {
		fresh, err := config.Load(cfg.Path())
		if err != nil {
			s.logger.Warn("Configuration reload failed; keeping previous configuration", logfields.Error(err))
			s.status.setError(err)
			return err
		}
		s.mu.Lock()
		s.cfg = fresh
		s.mu.Unlock()
		cfg = fresh
		s.logger.Info("Configuration reloaded", logfields.Path(cfg.Path()))
	}

	report, err := build.New(cfg, build.WithRecorder(s.recorder), build.WithLogger(s.logger)).Run(ctx)
	if err != nil {
		s.status.setError(err)
		return err
	}
	s.status.setSuccess(report)
	return nil
}

// Run builds the site, serves it and rebuilds on changes until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx, false); err != nil {
		s.logger.Error("Initial build failed", logfields.Error(err))
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "listen for preview").
			WithContext("addr", s.addr).
			Build()
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	var wg sync.WaitGroup
	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	s.logger.Info("Preview server listening", slog.String("addr", s.Addr()))

	w, err := s.newWatcher()
	if err != nil {
		_ = srv.Close()
		wg.Wait()
		return err
	}
	defer func() { _ = w.close() }()

	debouncer := newDebouncer(s.config().Preview.Debounce)
	defer debouncer.stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.rebuildWorker(ctx, debouncer.requests)
	}()

	close(s.ready)
	loopErr := s.runPreviewLoop(ctx, w, debouncer.trigger, serveErr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	debouncer.stop()
	wg.Wait()
	return loopErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.status.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if snap.Status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// handleRebuild rebuilds synchronously with a fresh configuration.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.Rebuild(r.Context(), true); err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.status.snapshot().Report)
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	hasError, err, good := s.status.getStatus()
	if !good {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		msg := "The site has not been built yet."
		if hasError {
			msg = err.Error()
		}
		_, _ = fmt.Fprintf(w, "<!DOCTYPE html><title>Build failed</title><h1>Build failed</h1>\n<pre>%s</pre>\n", html.EscapeString(msg))
		return
	}
	if hasError {
		w.Header().Set(BuildErrorHeader, "true")
	}
	cfg := s.config()
	http.FileServer(http.Dir(cfg.Resolve(cfg.OutputDir))).ServeHTTP(w, r)
}
