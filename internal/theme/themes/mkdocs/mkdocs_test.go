package mkdocs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/theme"
)

func TestLoad(t *testing.T) {
	h, err := theme.Get(Name)
	require.NoError(t, err)
	require.Equal(t, "mkdocs", h.Name)
	require.Equal(t, "1.0.0", h.Version)
	require.Equal(t, []string{"404.html"}, h.StaticTemplates)
	require.Equal(t, []string{"embedded:mkdocs"}, h.Dirs())

	lang, ok := h.Defaults.Get("language")
	require.True(t, ok)
	require.Equal(t, "en", lang)

	first := h.Defaults.Entries()[0]
	require.Equal(t, "locale", first.Key, "declaration order is preserved")
}

func TestLoad_Assets(t *testing.T) {
	h, err := Load()
	require.NoError(t, err)

	assets, err := h.StaticAssets(".md")
	require.NoError(t, err)

	var paths []string
	for _, a := range assets {
		paths = append(paths, a.Path)
	}
	require.ElementsMatch(t, []string{"css/theme.css", "js/theme.js"}, paths)
}
