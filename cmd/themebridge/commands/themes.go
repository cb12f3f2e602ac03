package commands

import (
	"fmt"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/theme"
)

// ThemesCmd lists the registered themes, marking the default.
type ThemesCmd struct{}

func (t *ThemesCmd) Run(g *Global) error {
	out := g.stdout()
	for _, name := range theme.Names() {
		marker := " "
		if name == config.DefaultTheme {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", marker, name); err != nil {
			return err
		}
	}
	return nil
}
