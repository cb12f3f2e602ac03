package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/hostsite"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
	"git.home.luguber.info/inful/themebridge/internal/search"
)

type recordingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes []metrics.BuildOutcomeLabel
	stages   map[string]metrics.ResultLabel
}

func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingRecorder) IncStageResult(stage string, res metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stages == nil {
		r.stages = map[string]metrics.ResultLabel{}
	}
	r.stages[stage] = res
}

func project(t *testing.T, extra string, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	path := filepath.Join(root, config.DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("site:\n  name: Build Test\n  copyright: 2026 Tests\nsearch:\n  enabled: true\nbuild:\n  workers: 2\n  clean: true\n"+extra), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func docs() map[string]string {
	return map[string]string{
		"docs/index.md":         "# Home\n\nWelcome to the [guide](guide/intro.md).\n",
		"docs/guide/intro.md":   "# Introduction\n\n## Setup\n\nRun the installer.\n",
		"docs/images/logo.svg":  "<svg/>",
		"docs/guide/.draft.md":  "# Draft\n",
		"site/stale/index.html": "old",
	}
}

func TestBuilder_Run_WritesSite(t *testing.T) {
	cfg := project(t, "", docs())
	rec := &recordingRecorder{}

	report, err := New(cfg, WithRecorder(rec), WithBuildTime(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, 2, report.Pages)
	require.Equal(t, 1, report.StaticTemplates)
	require.Zero(t, report.Failures)
	require.Equal(t, "mkdocs", report.Theme)
	require.NotEmpty(t, report.ID)

	out := cfg.Resolve(cfg.OutputDir)
	for _, rel := range []string{"index.html", "guide/intro/index.html", "404.html", "css/theme.css", "js/theme.js", "images/logo.svg", search.IndexPath} {
		require.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
	require.NoFileExists(t, filepath.Join(out, "stale", "index.html"))
	require.NoFileExists(t, filepath.Join(out, "mkdocs_theme.yml"))
	require.NoFileExists(t, filepath.Join(out, "main.html"))

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(home), "<title>Build Test</title>")
	require.Contains(t, string(home), `href="guide/intro/"`)
	require.Contains(t, string(home), "Copyright &copy; 2026 Tests")
	require.Contains(t, string(home), "on 2026-01-02")

	intro, err := os.ReadFile(filepath.Join(out, "guide", "intro", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(intro), `href="../../css/theme.css"`)

	raw, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(search.IndexPath)))
	require.NoError(t, err)
	var dump struct {
		Docs []search.Entry `json:"docs"`
	}
	require.NoError(t, json.Unmarshal(raw, &dump))
	require.Len(t, dump.Docs, report.SearchEntries)
	require.Equal(t, 3, report.SearchEntries)

	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
	require.Equal(t, metrics.ResultSuccess, rec.stages[StageSearch])
}

func TestBuilder_Run_SearchIndexFollowsSiteOrder(t *testing.T) {
	files := map[string]string{"docs/index.md": "# Home\n\nStart here.\n"}
	for i := range 12 {
		var body strings.Builder
		fmt.Fprintf(&body, "# Page %02d\n\n", i)
		for j := range (12 - i) * 40 {
			fmt.Fprintf(&body, "## Part %d\n\nParagraph %d of page %02d with [a link](index.md).\n\n", j, j, i)
		}
		files[fmt.Sprintf("docs/p%02d.md", i)] = body.String()
	}
	cfg := project(t, "", files)
	cfg.Build.Workers = 8

	site, err := hostsite.Open(cfg)
	require.NoError(t, err)
	want := make([]string, 0, len(site.Pages()))
	for _, p := range site.Pages() {
		want = append(want, p.URL())
	}
	require.Len(t, want, 13)

	for range 5 {
		report, err := New(cfg).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 8, report.Workers)

		raw, err := os.ReadFile(filepath.Join(cfg.Resolve(cfg.OutputDir), filepath.FromSlash(search.IndexPath)))
		require.NoError(t, err)
		var dump struct {
			Docs []search.Entry `json:"docs"`
		}
		require.NoError(t, json.Unmarshal(raw, &dump))

		var got []string
		for _, e := range dump.Docs {
			if !strings.Contains(e.Location, "#") {
				got = append(got, e.Location)
			}
		}
		require.Equal(t, want, got)
	}
}

func TestBuilder_Run_TemplateFailureIsAWarning(t *testing.T) {
	files := docs()
	files["custom/main.html"] = "{{.NoSuchField}}"
	cfg := project(t, "theme:\n  name: mkdocs\n  custom_dir: custom\n", files)

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusWarning, report.Status)
	require.Equal(t, 2, report.Failures)

	page, err := os.ReadFile(filepath.Join(cfg.Resolve(cfg.OutputDir), "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "Error occurred in Bridge.Render()")
}

func TestBuilder_Run_SearchDisabled(t *testing.T) {
	cfg := project(t, "", docs())
	cfg.Search.Enabled = false

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.SearchEntries)
	require.NoFileExists(t, filepath.Join(cfg.Resolve(cfg.OutputDir), filepath.FromSlash(search.IndexPath)))
}

func TestBuilder_Run_UnknownTheme(t *testing.T) {
	cfg := project(t, "theme:\n  name: nope\n", docs())
	rec := &recordingRecorder{}

	report, err := New(cfg, WithRecorder(rec)).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))
	require.Equal(t, StatusFailed, report.Status)
	require.Equal(t, metrics.ResultFailed, rec.stages[StageTheme])
}

func TestBuilder_Run_Canceled(t *testing.T) {
	cfg := project(t, "", docs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(cfg).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StatusCanceled, report.Status)
}

func TestBuilder_Run_NilConfig(t *testing.T) {
	report, err := New(nil).Run(context.Background())
	require.Error(t, err)
	require.Equal(t, StatusFailed, report.Status)
}

func TestStatus(t *testing.T) {
	require.True(t, StatusWarning.IsSuccess())
	require.False(t, StatusCanceled.IsSuccess())
	require.True(t, StatusCanceled.IsTerminal())
	require.False(t, Status("running").IsTerminal())
}
