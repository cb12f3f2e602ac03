package navtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

const sphinxToctree = `<p class="caption" role="heading"><span class="caption-text">Contents</span></p>
<ul class="current">
<li class="toctree-l1"><a class="reference internal" href="../install/">Installation</a></li>
<li class="toctree-l1"><a class="reference internal" href="../guide/">User Guide</a>
<ul class="current">
<li class="toctree-l2 current"><a class="current reference internal" href="#">Introduction</a></li>
<li class="toctree-l2"><a class="reference internal" href="../guide/advanced/">Advanced <em>topics</em></a></li>
</ul>
</li>
</ul>`

func TestParse_SphinxToctree(t *testing.T) {
	roots, err := Parse(sphinxToctree)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	install := roots[0]
	require.True(t, install.IsLink())
	require.Equal(t, "Installation", install.Title)
	require.Equal(t, "../install/", install.URL)
	require.False(t, install.Active)

	guide := roots[1]
	require.True(t, guide.IsSection())
	require.Equal(t, "User Guide", guide.Title)
	require.Empty(t, guide.URL, "sections do not retain their anchor target")
	require.Len(t, guide.Children, 2)

	intro := guide.Children[0]
	require.True(t, intro.Active)
	require.Equal(t, "#", intro.URL)
	require.Equal(t, "Advanced topics", guide.Children[1].Title)
	require.False(t, guide.Children[1].IsPage())
}

func TestParse_EmptyFragment(t *testing.T) {
	for _, markup := range []string{"", "   \n\t"} {
		roots, err := Parse(markup)
		require.NoError(t, err)
		require.Empty(t, roots)
	}
}

func TestParse_SkipsNonListContent(t *testing.T) {
	roots, err := Parse(`text<div><ul><li><a href="x">hidden in div</a></li></ul></div><!-- c --><ul><li><a href="a/">A</a></li></ul>`)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, "A", roots[0].Title)
}

func TestParse_MultipleTopLevelListsConcatenate(t *testing.T) {
	roots, err := Parse(`<ul><li><a href="a/">A</a></li></ul><ul><li><a href="b/">B</a></li></ul>`)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, "A", roots[0].Title)
	require.Equal(t, "B", roots[1].Title)
}

func TestParse_OnlyDirectItems(t *testing.T) {
	// The nested item belongs to the section, never to the top level.
	roots, err := Parse(`<ul><li><a href="s/">S</a><ul><li><a href="s/x/">X</a></li></ul></li></ul>`)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, 2, Count(roots))
}

func TestParse_MissingAnchorFails(t *testing.T) {
	markup := `<ul><li><a href="a/">A</a></li><li><a href="b/">B</a><ul><li>no link</li></ul></li></ul>`

	roots, err := Parse(markup)
	require.Error(t, err)
	require.Nil(t, roots, "no partial tree on failure")
	require.True(t, derrors.HasCategory(err, derrors.CategoryNavigation))

	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	pos, _ := ce.Context().GetString("position")
	require.Equal(t, "1.2.1", pos)

	// Deterministic: same input, same failure.
	_, again := Parse(markup)
	require.Equal(t, err.Error(), again.Error())
}

func TestParse_ActiveIsNotUnique(t *testing.T) {
	roots, err := Parse(`<ul><li class="current"><a href="a/">A</a></li><li class="current"><a href="b/">B</a></li></ul>`)
	require.NoError(t, err)
	require.True(t, roots[0].Active)
	require.True(t, roots[1].Active)
	require.Same(t, roots[0], Active(roots))
}
