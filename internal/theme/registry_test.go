package theme

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

func TestRegistry(t *testing.T) {
	calls := 0
	Register("registry-test", func() (*Handle, error) {
		calls++
		return FromFS("mem", fstest.MapFS{ConfigFile: {Data: []byte("navigation_depth: 3\n")}})
	})
	Register("registry-test", func() (*Handle, error) {
		t.Fatal("duplicate registration must be ignored")
		return nil, nil
	})

	require.Contains(t, Names(), "registry-test")

	h, err := Get("registry-test")
	require.NoError(t, err)
	require.Equal(t, "registry-test", h.Name, "name falls back to the registry key")
	require.Equal(t, 1, calls)

	_, err = Get("registry-test")
	require.NoError(t, err)
	require.Equal(t, 2, calls, "each Get yields a fresh handle")
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("no-such-theme")
	require.True(t, errors.HasCategory(err, errors.CategoryTheme))
}
