package translate

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
	"git.home.luguber.info/inful/themebridge/internal/theme"
)

// Indexer accepts translated pages for the search index.
type Indexer interface {
	AddEntry(page *Page) error
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	indexer  Indexer
	hostInfo host.Info
	recorder metrics.Recorder
	logger   *slog.Logger
	id       string
}

// WithIndexer attaches a search indexer; every translated page is fed to it once.
func WithIndexer(idx Indexer) Option { return func(c *sessionConfig) { c.indexer = idx } }

// WithHostInfo names the host pipeline in the provenance string.
func WithHostInfo(info host.Info) Option { return func(c *sessionConfig) { c.hostInfo = info } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(c *sessionConfig) { c.recorder = r } }

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) Option { return func(c *sessionConfig) { c.logger = l } }

// WithID sets the session ID used in logs; a random UUID is used otherwise.
func WithID(id string) Option { return func(c *sessionConfig) { c.id = id } }

// Session owns the build-wide translation state.
type Session struct {
	id         string
	translator *Translator
	closed     atomic.Bool
}

// NewSession validates the collaborators and prepares a translator for th.
func NewSession(th *theme.Handle, opts ...Option) (*Session, error) {
	cfg := sessionConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	if th == nil {
		if cfg.indexer != nil {
			return nil, errors.ConfigError("search indexer requested without a theme").Build()
		}
		return nil, errors.ConfigError("translation session requires a theme").Build()
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Session{id: cfg.id}
	s.translator = &Translator{
		theme:    th,
		indexer:  cfg.indexer,
		indexMu:  &sync.Mutex{},
		hostInfo: cfg.hostInfo,
		recorder: metrics.OrNoop(cfg.recorder),
		logger:   cfg.logger.With(slog.String("session", cfg.id)),
		closed:   &s.closed,
	}
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Translator returns the session's translator.
func (s *Session) Translator() *Translator { return s.translator }

// Indexer returns the attached indexer, or nil.
func (s *Session) Indexer() Indexer { return s.translator.indexer }

// Close ends the session. Translations after Close fail.
func (s *Session) Close() error {
	s.closed.Store(true)
	return nil
}
