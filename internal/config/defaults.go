package config

import "time"

const (
	DefaultDocsDir   = "docs"
	DefaultOutputDir = "site"
	DefaultTheme     = "mkdocs"
	DefaultRootPage  = "index"
	DefaultEncoding  = "utf-8"
	DefaultPort      = 8000
	DefaultDebounce  = 300 * time.Millisecond
)

func applyDefaults(c *Config) {
	if c.DocsDir == "" {
		c.DocsDir = DefaultDocsDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Theme.Name == "" && c.Theme.Dir == "" {
		c.Theme.Name = DefaultTheme
	}
	if c.Site.RootPage == "" {
		c.Site.RootPage = DefaultRootPage
	}
	if c.Site.Encoding == "" {
		c.Site.Encoding = DefaultEncoding
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Debounce <= 0 {
		c.Preview.Debounce = DefaultDebounce
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{Search: SearchConfig{Enabled: true}, Build: BuildConfig{Clean: true}}
	applyDefaults(c)
	return c
}
