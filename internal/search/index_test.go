package search

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themebridge/internal/navtree"
	"git.home.luguber.info/inful/themebridge/internal/translate"
)

const content = `<h1 id="intro">Intro</h1>
<p>Welcome to <strong>the guide</strong> &amp; more.</p>
<h2 id="install">Install</h2>
<p>Run the installer.</p>
<script>var x = 1;</script>
<h3 id="linux">Linux</h3>
<ul><li>apt</li><li>dnf</li></ul>
<h2 id="usage">Usage</h2>
<p>Use it.</p>`

func page() *translate.Page {
	toc, err := navtree.ParseOutline(`<ul>
<li><a href="#install">Install</a><ul><li><a href="#linux">Linux</a></li></ul></li>
<li><a href="#usage">Usage</a></li>
</ul>`)
	if err != nil {
		panic(err)
	}
	return &translate.Page{Title: "Intro", URL: "guide/intro/", Content: content, TOC: toc}
}

func TestAddEntry_PageAndSections(t *testing.T) {
	ix := New(DefaultConfig("en"))
	require.NoError(t, ix.AddEntry(page()))

	entries := ix.Entries()
	require.Len(t, entries, 4)

	require.Equal(t, "guide/intro/", entries[0].Location)
	require.Equal(t, "Intro", entries[0].Title)
	require.Contains(t, entries[0].Text, "Welcome to the guide & more.")
	require.NotContains(t, entries[0].Text, "<strong>")

	require.Equal(t, Entry{Location: "guide/intro/#install", Title: "Install", Text: "Run the installer."}, entries[1])
	require.Equal(t, Entry{Location: "guide/intro/#linux", Title: "Linux", Text: "apt dnf"}, entries[2])
	require.Equal(t, Entry{Location: "guide/intro/#usage", Title: "Usage", Text: "Use it."}, entries[3])
}

func TestAddEntry_KeepsCallOrder(t *testing.T) {
	ix := New(DefaultConfig(""))
	for _, url := range []string{"", "a/", "b/"} {
		require.NoError(t, ix.AddEntry(&translate.Page{URL: url, Title: url}))
	}
	var got []string
	for _, e := range ix.Entries() {
		got = append(got, e.Location)
	}
	require.Equal(t, []string{"", "a/", "b/"}, got)
	require.Equal(t, 3, ix.Len())
}

func TestAddEntry_Nil(t *testing.T) {
	require.Error(t, New(DefaultConfig("en")).AddEntry(nil))
}

func TestWriteJSON(t *testing.T) {
	ix := New(DefaultConfig("de_DE"))
	var buf bytes.Buffer
	require.NoError(t, ix.WriteJSON(&buf))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, map[string]any{
		"lang":      []any{"de"},
		"separator": `[\s\-]+`,
		"pipeline":  []any{"stopWordFilter"},
	}, doc["config"])
	require.Equal(t, []any{}, doc["docs"])

	require.NoError(t, ix.AddEntry(&translate.Page{URL: "x/", Title: "X", Content: "<p>x</p>"}))
	buf.Reset()
	require.NoError(t, ix.WriteJSON(&buf))
	require.Contains(t, buf.String(), `{"location":"x/","title":"X","text":"x"}`)
}

func TestLang(t *testing.T) {
	tests := map[string]string{
		"":       "en",
		"en":     "en",
		"en-US":  "en",
		"pt_BR":  "pt",
		"zh_CN":  "zh",
		"!!bad!": "en",
	}
	for in, want := range tests {
		require.Equal(t, want, Lang(in), in)
	}
}
