package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// Validate checks cross-field constraints after defaults are applied.
func Validate(c *Config) error {
	if c.Site.Name == "" {
		return errors.ValidationError("site.name is required").Build()
	}
	if filepath.Clean(c.DocsDir) == filepath.Clean(c.OutputDir) {
		return errors.ValidationError("docs_dir and output_dir must differ").
			WithContext("dir", c.DocsDir).
			Build()
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.ValidationError("preview.port out of range").
			WithContext("port", c.Preview.Port).
			Build()
	}
	for k := range c.Theme.Options {
		if strings.TrimSpace(k) == "" {
			return errors.ValidationError("theme.options contains an empty key").Build()
		}
	}
	return validateNav(c.Nav, "nav")
}

func validateNav(items []NavItem, path string) error {
	for i, it := range items {
		switch {
		case it.Page == "" && len(it.Children) == 0:
			return errors.ValidationError("nav entry has neither a page nor children").
				WithContext("entry", path).
				WithContext("index", i).
				Build()
		case it.Page != "" && len(it.Children) > 0:
			return errors.ValidationError("nav entry has both a page and children").
				WithContext("entry", path).
				WithContext("index", i).
				Build()
		}
		if err := validateNav(it.Children, path+"."+it.Title); err != nil {
			return err
		}
	}
	return nil
}
