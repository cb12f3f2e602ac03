package build

import (
	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/theme"

	// Built-in themes register themselves.
	_ "git.home.luguber.info/inful/themebridge/internal/theme/themes/mkdocs"
)

// LoadTheme resolves the configured theme: a directory when theme.dir is set,
// otherwise a built-in theme by name, with theme.custom_dir layered on top.
func LoadTheme(cfg *config.Config) (*theme.Handle, error) {
	var (
		h   *theme.Handle
		err error
	)
	if cfg.Theme.Dir != "" {
		h, err = theme.LoadDir(cfg.Resolve(cfg.Theme.Dir))
	} else {
		h, err = theme.Get(cfg.Theme.Name)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Theme.CustomDir != "" {
		h = h.WithOverrideDir(cfg.Resolve(cfg.Theme.CustomDir))
	}
	return h, nil
}
