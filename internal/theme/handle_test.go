package theme

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

const themeYAML = `
name: sample
version: "2.1"
static_templates: [404.html, sitemap.xml]
nav_style: dark
highlightjs: true
shortcuts:
  next: 78
`

func TestFromFS_ReadsDeclaration(t *testing.T) {
	fsys := fstest.MapFS{ConfigFile: {Data: []byte(themeYAML)}}

	h, err := FromFS("mem", fsys)
	require.NoError(t, err)
	require.Equal(t, "sample", h.Name)
	require.Equal(t, "2.1", h.Version)
	require.Equal(t, []string{"404.html", "sitemap.xml"}, h.StaticTemplates)

	keys := []string{}
	for _, e := range h.Defaults.Entries() {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{"nav_style", "highlightjs", "shortcuts"}, keys)

	v, _ := h.Defaults.Get("shortcuts")
	require.Equal(t, map[string]any{"next": 78}, v)
}

func TestFromFS_Errors(t *testing.T) {
	_, err := FromFS("mem", fstest.MapFS{})
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))

	_, err = FromFS("mem", fstest.MapFS{ConfigFile: {Data: []byte("extends: base\n")}})
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))

	_, err = FromFS("mem", fstest.MapFS{ConfigFile: {Data: []byte("- a\n- b\n")}})
	require.Error(t, err)
}

func TestFromFS_EmptyDeclaration(t *testing.T) {
	h, err := FromFS("mem", fstest.MapFS{ConfigFile: {Data: []byte("")}})
	require.NoError(t, err)
	require.Zero(t, h.Defaults.Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(themeYAML), 0o600))

	h, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{dir}, h.Dirs())

	_, err = LoadDir(filepath.Join(dir, "missing"))
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))

	_, err = LoadDir(filepath.Join(dir, ConfigFile))
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))
}

func TestFS_FirstLayerWins(t *testing.T) {
	h := &Handle{Layers: []Layer{
		{Source: "override", FS: fstest.MapFS{"main.html": {Data: []byte("override")}}},
		{Source: "base", FS: fstest.MapFS{
			"main.html":          {Data: []byte("base")},
			"partials/nav.html":  {Data: []byte("nav")},
			"partials/footer.md": {Data: []byte("x")},
		}},
	}}

	data, err := fs.ReadFile(h.FS(), "main.html")
	require.NoError(t, err)
	require.Equal(t, "override", string(data))

	data, err = fs.ReadFile(h.FS(), "partials/nav.html")
	require.NoError(t, err)
	require.Equal(t, "nav", string(data))

	matches, err := fs.Glob(h.FS(), "partials/*.html")
	require.NoError(t, err)
	require.Equal(t, []string{"partials/nav.html"}, matches)

	_, err = h.FS().Open("nope.html")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWithOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.html"), []byte("custom"), 0o600))

	base := &Handle{Name: "base", Layers: []Layer{{Source: "base", FS: fstest.MapFS{"main.html": {Data: []byte("base")}}}}}
	h := base.WithOverrideDir(dir)

	require.Equal(t, []string{dir, "base"}, h.Dirs())
	require.Len(t, base.Layers, 1)
	data, err := fs.ReadFile(h.FS(), "main.html")
	require.NoError(t, err)
	require.Equal(t, "custom", string(data))
}

func TestStaticAssets_Excludes(t *testing.T) {
	base := fstest.MapFS{
		ConfigFile:          {Data: []byte("")},
		"main.html":         {},
		"partials/nav.html": {},
		"css/theme.css":     {Data: []byte("base")},
		"js/theme.js":       {},
		".hidden":           {},
		"img/.DS_Store":     {},
		".git/config":       {},
		"README.md":         {},
		"docs/ReadMe.txt":   {},
		"hooks/setup.py":    {},
		"hooks/setup.pyc":   {},
		"content/page.md":   {},
		"fonts/icons.woff2": {},
		"img/logo.svg":      {},
	}
	override := fstest.MapFS{"css/theme.css": {Data: []byte("override")}}
	h := &Handle{Layers: []Layer{{Source: "override", FS: override}, {Source: "base", FS: base}}}

	assets, err := h.StaticAssets(".md")
	require.NoError(t, err)

	got := map[string]string{}
	for _, a := range assets {
		got[a.Path] = a.Source
	}
	require.Equal(t, map[string]string{
		"css/theme.css":     "override",
		"js/theme.js":       "base",
		"fonts/icons.woff2": "base",
		"img/logo.svg":      "base",
	}, got)
}

func TestNewestTemplateMtime(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := old.Add(time.Hour)
	h := &Handle{Layers: []Layer{
		{Source: "a", FS: fstest.MapFS{"main.html": {ModTime: old}, "theme.css": {ModTime: newer.Add(time.Hour)}}},
		{Source: "b", FS: fstest.MapFS{"partials/nav.html": {ModTime: newer}}},
	}}
	require.Equal(t, newer, h.NewestTemplateMtime())
}
