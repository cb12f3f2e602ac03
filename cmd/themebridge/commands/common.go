package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/themebridge/internal/config"
)

// LogLevelEnv overrides the log level chosen by flags and configuration.
const LogLevelEnv = "THEMEBRIDGE_LOG_LEVEL"

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"themebridge.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging (${log_level_env} accepts: ${log_levels})"`

	Build   BuildCmd   `cmd:"" help:"Render the documentation through the configured theme"`
	Serve   ServeCmd   `cmd:"" help:"Serve a live preview that rebuilds on change"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Themes  ThemesCmd  `cmd:"" help:"List built-in themes"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Vars supplies the help-text variables CLI refers to.
func Vars() kong.Vars {
	return kong.Vars{
		"log_level_env": LogLevelEnv,
		"log_levels":    strings.Join(config.LogLevelNames(), ", "),
	}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, parseLogLevel(c.Verbose, ""), config.LogFormatText))
	return nil
}

// parseLogLevel resolves the level: -v wins, then THEMEBRIDGE_LOG_LEVEL, then configured.
func parseLogLevel(verbose bool, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if env := strings.TrimSpace(os.Getenv(LogLevelEnv)); env != "" {
		lvl, err := config.ParseLogLevel(env)
		if err == nil {
			return lvl.SlogLevel()
		}
		slog.Warn("Ignoring invalid "+LogLevelEnv,
			slog.String("value", env),
			slog.String("valid", strings.Join(config.LogLevelNames(), ", ")))
	}
	return configured.SlogLevel()
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig loads the project configuration and reconfigures logging from it.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, parseLogLevel(root.Verbose, cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
