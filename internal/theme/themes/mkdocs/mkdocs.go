// Package mkdocs ships the built-in "mkdocs" theme.
package mkdocs

import (
	"embed"
	"io/fs"

	"git.home.luguber.info/inful/themebridge/internal/theme"
)

// Name is the registry name of the theme.
const Name = "mkdocs"

//go:embed assets
var assets embed.FS

// Load returns a fresh handle over the embedded theme files.
func Load() (*theme.Handle, error) {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, err
	}
	return theme.FromFS("embedded:"+Name, sub)
}

func init() { theme.Register(Name, Load) }
