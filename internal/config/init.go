package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// Init writes an example configuration to path. An existing file is kept unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Site = SiteConfig{
		Name:      "My Documentation",
		Author:    "Documentation Team",
		Copyright: "2026, Documentation Team",
		Locale:    "en",
		Encoding:  DefaultEncoding,
		RootPage:  DefaultRootPage,
	}
	example.Theme.Options = map[string]any{"navigation_depth": 3}
	example.Build.Workers = 4
	example.Nav = []NavItem{
		{Page: "index.md"},
		{Title: "Guide", Children: []NavItem{
			{Title: "Introduction", Page: "guide/intro.md"},
		}},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal example configuration").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // configuration is not secret
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
