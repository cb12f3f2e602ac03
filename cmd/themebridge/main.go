package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/themebridge/cmd/themebridge/commands"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("themebridge"),
		kong.Description("Render host documentation pages through a foreign theme's templates."),
		kong.UsageOnError(),
		commands.Vars(),
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
