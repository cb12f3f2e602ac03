package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/themebridge/internal/build"
	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory (overrides output_dir)" type:"path"`
	Workers int    `short:"w" help:"Concurrent page renders (overrides build.workers)"`
	JSON    bool   `name:"json" help:"Print the build report as JSON"`
	Strict  bool   `help:"Fail when the build finishes with warnings"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if err := b.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunBuild(ctx, g, cfg, b.JSON, b.Strict)
}

func (b *BuildCmd) apply(cfg *config.Config) error {
	if b.Output != "" {
		abs, err := filepath.Abs(b.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "resolve output directory").
				WithContext("output", b.Output).
				Build()
		}
		cfg.OutputDir = abs
	}
	if b.Workers < 0 {
		return errors.ValidationError("--workers must not be negative").
			WithContext("workers", b.Workers).
			Build()
	}
	if b.Workers > 0 {
		cfg.Build.Workers = b.Workers
	}
	return config.Validate(cfg)
}

// RunBuild builds the project once and prints the report.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config, asJSON, strict bool) error {
	report, err := build.New(cfg, build.WithLogger(g.logger())).Run(ctx)
	if report != nil {
		if perr := printReport(g.stdout(), report, asJSON); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if strict && report.Status == build.StatusWarning {
		return errors.RenderError("build finished with warnings").
			WithContext("failures", report.Failures).
			WithContext("warnings", report.Warnings).
			Build()
	}
	return nil
}

func printReport(w io.Writer, r *build.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "encode build report").Build()
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "Build %s: %d pages, %d static templates, %d assets, %d search entries, %d failures, %d warnings in %s\nOutput: %s\n",
		r.Status, r.Pages, r.StaticTemplates, r.Assets, r.SearchEntries, r.Failures, r.Warnings, r.Duration.Round(time.Millisecond), r.OutputDir)
	return err
}
