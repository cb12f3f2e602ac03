package hostsite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/navtree"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func sampleDocs() map[string]string {
	return map[string]string{
		"index.md":         "---\ntitle: Welcome\n---\n# Home\n\nSee [intro](guide/intro.md#setup).\n\n## Overview\n\ntext\n\n### Detail\n",
		"about-us.md":      "About\n",
		"guide/intro.md":   "# Introduction\n\n## Setup\n\nBack [home](../index.md). ![img](missing.png) ![logo](../img/logo.png)\n",
		"guide/install.md": "---\nhidden: true\n---\n# Install\n",
		"img/logo.png":     "png",
		".hidden/skip.md":  "# Skipped\n",
	}
}

func openSite(t *testing.T, files map[string]string, extra string) *Site {
	t.Helper()
	s, err := tryOpen(t, files, extra)
	require.NoError(t, err)
	return s
}

func tryOpen(t *testing.T, files map[string]string, extra string) (*Site, error) {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	writeFiles(t, docs, files)
	cfg, err := config.Parse([]byte("site:\n  name: Test Docs\n  copyright: 2026 Test\ndocs_dir: " + docs +
		"\noutput_dir: " + filepath.Join(root, "site") + "\n" + extra))
	require.NoError(t, err)
	return Open(cfg, WithBuildTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

var primary = host.ToctreeOptions{MaxDepth: 2, TitlesOnly: true}

func TestOpen_DiscoversPages(t *testing.T) {
	s := openSite(t, sampleDocs(), "")

	var names []string
	for _, p := range s.Pages() {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"index", "about-us", "guide/install", "guide/intro"}, names)
	require.Equal(t, []string{"img/logo.png"}, s.Assets())

	home, ok := s.Page("index")
	require.True(t, ok)
	require.Equal(t, "Welcome", home.Title)
	require.Contains(t, home.Body, `href="guide/intro/#setup"`)
	require.Equal(t, `<ul><li><a href="#overview">Overview</a><ul><li><a href="#detail">Detail</a></li></ul></li></ul>`, home.TOC)

	about, _ := s.Page("about-us")
	require.Equal(t, "About Us", about.Title)

	intro, _ := s.Page("guide/intro")
	require.Equal(t, "Introduction", intro.Title)
	require.Contains(t, intro.Body, `href="../../"`)
	require.Equal(t, "guide/intro/index.html", intro.OutputPath())

	install, _ := s.Page("guide/install")
	require.True(t, install.Hidden)

	require.Equal(t, 1, s.Warnings())
}

func TestOpen_MissingRootPage(t *testing.T) {
	_, err := tryOpen(t, map[string]string{"other.md": "# Other\n"}, "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestOpen_ReadmeBecomesIndex(t *testing.T) {
	s := openSite(t, map[string]string{"README.md": "# Readme\n", "sub/README.md": "x", "sub/index.md": "y"}, "")
	_, ok := s.Page("index")
	require.True(t, ok)
	_, ok = s.Page("sub/README")
	require.True(t, ok)
}

func TestOpen_InvalidFrontmatter(t *testing.T) {
	_, err := tryOpen(t, map[string]string{"index.md": "---\ntitle: [\n---\n"}, "")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestToctree_PrimaryFromNestedPage(t *testing.T) {
	s := openSite(t, sampleDocs(), "")

	markup, err := s.Toctree("guide/intro")(primary)
	require.NoError(t, err)
	require.Equal(t, `<ul>`+
		`<li><a href="../../">Welcome</a></li>`+
		`<li><a href="../../about-us/">About Us</a></li>`+
		`<li class="current"><a href="../../guide/intro/">Guide</a><ul>`+
		`<li class="current"><a href="../../guide/intro/">Introduction</a></li>`+
		`</ul></li></ul>`, markup)

	roots, err := navtree.Parse(markup)
	require.NoError(t, err)
	active := navtree.Active(roots)
	require.NotNil(t, active)
	require.Equal(t, "Introduction", active.Title)
}

func TestToctree_Options(t *testing.T) {
	s := openSite(t, sampleDocs(), "")

	t.Run("include hidden", func(t *testing.T) {
		markup, err := s.Toctree("index")(host.ToctreeOptions{MaxDepth: -1, IncludeHidden: true, TitlesOnly: true})
		require.NoError(t, err)
		require.Contains(t, markup, `<a href="guide/install/">Install</a>`)
	})

	t.Run("collapse", func(t *testing.T) {
		markup, err := s.Toctree("index")(host.ToctreeOptions{MaxDepth: -1, Collapse: true, TitlesOnly: true})
		require.NoError(t, err)
		require.Contains(t, markup, `<li><a href="guide/intro/">Guide</a></li>`)
		require.NotContains(t, markup, "Introduction")
	})

	t.Run("depth one", func(t *testing.T) {
		markup, err := s.Toctree("guide/intro")(host.ToctreeOptions{MaxDepth: 1, TitlesOnly: true})
		require.NoError(t, err)
		require.NotContains(t, markup, "Introduction")
	})

	t.Run("sections", func(t *testing.T) {
		markup, err := s.Toctree("index")(host.ToctreeOptions{MaxDepth: -1})
		require.NoError(t, err)
		require.Contains(t, markup, `<li class="current"><a href="./">Welcome</a><ul><li><a href="#overview">Overview</a></li></ul></li>`)
	})
}

func TestOutline_FromConfiguredNav(t *testing.T) {
	nav := "nav:\n  - index.md\n  - Guide:\n      - guide/intro.md\n  - Source: https://example.com/repo\n"
	s := openSite(t, sampleDocs(), nav)

	outline := s.Outline()
	require.Len(t, outline, 5)
	require.Equal(t, "Welcome", outline[0].Title)
	require.Equal(t, "Guide", outline[1].Title)
	require.True(t, outline[1].IsSection())
	require.Equal(t, "https://example.com/repo", outline[2].URL)
	require.True(t, outline[3].Hidden)
	require.True(t, outline[4].Hidden)

	markup, err := s.Toctree("index")(primary)
	require.NoError(t, err)
	require.NotContains(t, markup, "About Us")
	require.Contains(t, markup, `<a href="https://example.com/repo">Source</a>`)
}

func TestOutline_NavMissingPage(t *testing.T) {
	_, err := tryOpen(t, sampleDocs(), "nav:\n  - nope.md\n")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNavigation))
}

func TestContext(t *testing.T) {
	s := openSite(t, sampleDocs(), "theme:\n  options:\n    navigation_depth: 3\n")

	hc, err := s.Context("index", "page.html")
	require.NoError(t, err)
	require.NoError(t, hc.Validate())
	require.Equal(t, "Welcome", hc.Title)
	require.Equal(t, "index", hc.RootPage)
	require.Equal(t, "Test Docs", hc.SiteTitle)
	require.Equal(t, "2026-03-01", hc.LastUpdated)
	require.Equal(t, 1, hc.Vars.Len())
	require.NotEmpty(t, hc.Body)

	static, err := s.Context("index", "404.html")
	require.NoError(t, err)
	require.Empty(t, static.Body)
	require.Empty(t, static.TOC)

	_, err = s.Context("missing", "page.html")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestRelativeURL(t *testing.T) {
	require.Equal(t, "./", relativeURL("", ""))
	require.Equal(t, "guide/", relativeURL("", "guide/"))
	require.Equal(t, "../", relativeURL("guide/", ""))
	require.Equal(t, "../../a/", relativeURL("x/y/", "a/"))
}
