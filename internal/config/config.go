// Package config loads the themebridge project file.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/themecfg"
)

// DefaultPath is the project file name used when none is given.
const DefaultPath = "themebridge.yaml"

// Config is the project configuration.
type Config struct {
	Site            SiteConfig    `yaml:"site"`
	DocsDir         string        `yaml:"docs_dir"`
	OutputDir       string        `yaml:"output_dir"`
	Theme           ThemeConfig   `yaml:"theme"`
	ExtraCSS        []string      `yaml:"extra_css,omitempty"`
	ExtraJavaScript []string      `yaml:"extra_javascript,omitempty"`
	Nav             []NavItem     `yaml:"nav,omitempty"`
	Search          SearchConfig  `yaml:"search"`
	Build           BuildConfig   `yaml:"build"`
	Logging         LoggingConfig `yaml:"logging"`
	Preview         PreviewConfig `yaml:"preview"`

	// path is the file the configuration was read from.
	path string
}

// SiteConfig holds site-wide metadata.
type SiteConfig struct {
	Name      string `yaml:"name"`
	Author    string `yaml:"author,omitempty"`
	Copyright string `yaml:"copyright,omitempty"`
	// Locale is the content language; it always overrides the theme's language option.
	Locale   string `yaml:"locale,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`
	// RootPage is the page name of the homepage.
	RootPage string `yaml:"root_page,omitempty"`
}

// ThemeConfig selects and configures the theme.
type ThemeConfig struct {
	// Name selects a built-in theme.
	Name string `yaml:"name"`
	// Dir loads a theme from disk instead of a built-in one.
	Dir string `yaml:"dir,omitempty"`
	// CustomDir is searched before the theme's own templates.
	CustomDir string `yaml:"custom_dir,omitempty"`
	// Options override the theme's defaults.
	Options map[string]any `yaml:"options,omitempty"`
	// Extra replaces the theme's extra mapping.
	Extra map[string]any `yaml:"extra,omitempty"`
}

// Overrides converts the configured options into theme override variables.
func (t ThemeConfig) Overrides() themecfg.Overrides {
	vars := make(map[string]any, len(t.Options)+1)
	for k, v := range t.Options {
		vars[themecfg.Prefix+k] = v
	}
	if t.Extra != nil {
		vars[themecfg.Prefix+themecfg.ExtraName] = t.Extra
	}
	return themecfg.OverridesFromMap(vars)
}

// SearchConfig controls the search index.
type SearchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BuildConfig controls the build.
type BuildConfig struct {
	// Workers bounds concurrent page renders; 0 selects the CPU count.
	Workers int  `yaml:"workers"`
	Clean   bool `yaml:"clean"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// PreviewConfig controls the preview server.
type PreviewConfig struct {
	Port     int           `yaml:"port"`
	Debounce time.Duration `yaml:"debounce"`
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

// Resolve returns p relative to the configuration directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Load reads, expands, normalizes and validates the configuration at path.
// Variables from .env files next to the configuration and in the working
// directory are loaded first; existing environment variables win.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration").
			Fatal().
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes a configuration document without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Fatal().Build()
	}

	res := Normalize(cfg)
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", slog.String("detail", w))
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(dir string) {
	candidates := []string{filepath.Join(dir, ".env"), ".env", ".env.local"}
	seen := map[string]bool{}
	for _, p := range candidates {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		if err := godotenv.Load(abs); err != nil {
			slog.Warn("Failed to load environment file", slog.String("path", abs), slog.String("error", err.Error()))
		}
	}
}
