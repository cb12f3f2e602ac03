package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"git.home.luguber.info/inful/themebridge/internal/build"
	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

func project(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"docs/index.md":       "# Home\n\nHello preview.\n",
		"docs/guide/intro.md": "# Intro\n",
		config.DefaultPath:    "site:\n  name: Preview Test\nsearch:\n  enabled: true\nbuild:\n  workers: 2\n  clean: true\npreview:\n  debounce: 50ms\n",
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	cfg, err := config.Load(filepath.Join(root, config.DefaultPath))
	require.NoError(t, err)
	return cfg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/page.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.True(t, shouldIgnoreEvent("/tmp/4913"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestHandler_BeforeFirstBuild(t *testing.T) {
	s := New(project(t), Options{})

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "not been built")

	var snap healthSnapshot
	require.NoError(t, json.Unmarshal(get(t, s.Handler(), "/healthz").Body.Bytes(), &snap))
	require.Equal(t, "starting", snap.Status)
}

func TestRebuild_ServesSite(t *testing.T) {
	s := New(project(t), Options{})
	require.NoError(t, s.Rebuild(context.Background(), false))

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hello preview.")
	require.Empty(t, rec.Header().Get(BuildErrorHeader))

	rec = get(t, s.Handler(), "/guide/intro/")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap healthSnapshot
	require.NoError(t, json.Unmarshal(get(t, s.Handler(), "/healthz").Body.Bytes(), &snap))
	require.Equal(t, "ok", snap.Status)
	require.Equal(t, 1, snap.Builds)
	require.NotNil(t, snap.Report)
	require.Equal(t, 2, snap.Report.Pages)

	rec = get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "themebridge_")
}

func TestRebuild_FailureKeepsStaleSite(t *testing.T) {
	cfg := project(t)
	s := New(cfg, Options{})
	require.NoError(t, s.Rebuild(context.Background(), false))

	require.NoError(t, os.Remove(filepath.Join(cfg.Resolve(cfg.DocsDir), "index.md")))
	require.Error(t, s.Rebuild(context.Background(), false))

	rec := get(t, s.Handler(), "/guide/intro/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Header().Get(BuildErrorHeader))

	rec = get(t, s.Handler(), "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleRebuild(t *testing.T) {
	cfg := project(t)
	s := New(cfg, Options{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rebuild", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var report build.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, build.StatusSuccess, report.Status)

	require.NoError(t, os.Remove(filepath.Join(cfg.Resolve(cfg.DocsDir), "index.md")))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rebuild", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(errors.CategoryNotFound), body.Code)
	require.Equal(t, "root page not found", body.Error)
}

func TestRebuild_ReloadsConfiguration(t *testing.T) {
	cfg := project(t)
	s := New(cfg, Options{})
	require.NoError(t, os.WriteFile(cfg.Path(), []byte("site:\n  name: Renamed\n"), 0o600))

	require.NoError(t, s.Rebuild(context.Background(), true))
	require.Equal(t, "Renamed", s.config().Site.Name)

	require.NoError(t, os.WriteFile(cfg.Path(), []byte("site: [\n"), 0o600))
	require.Error(t, s.Rebuild(context.Background(), true))
	require.Equal(t, "Renamed", s.config().Site.Name)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := project(t)
	s := New(cfg, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-s.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("preview stopped early: %v", err)
	case <-time.After(10 * time.Second):
		cancel()
		t.Fatal("preview did not become ready")
	}
	require.NotEqual(t, "127.0.0.1:0", s.Addr())

	page := filepath.Join(cfg.Resolve(cfg.OutputDir), "added", "index.html")
	require.NoFileExists(t, page)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Resolve(cfg.DocsDir), "added.md"), []byte("# Added\n"), 0o600))
	require.Eventually(t, func() bool {
		_, err := os.Stat(page)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview did not shut down")
	}
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()
	for range 5 {
		d.trigger()
	}
	select {
	case <-d.requests:
	case <-time.After(2 * time.Second):
		t.Fatal("no rebuild request")
	}
	select {
	case <-d.requests:
		t.Fatal("triggers were not coalesced")
	case <-time.After(100 * time.Millisecond):
	}
}
