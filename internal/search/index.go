// Package search accumulates the client-side search index fed by the translator
// and writes it as search/search_index.json.
package search

import (
	"encoding/json"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/navtree"
	"git.home.luguber.info/inful/themebridge/internal/translate"
)

// IndexPath is where the index is written, relative to the output root.
const IndexPath = "search/search_index.json"

// Config is the index configuration consumed by the client-side search.
type Config struct {
	Lang      []string `json:"lang"`
	Separator string   `json:"separator"`
	Pipeline  []string `json:"pipeline"`
}

// DefaultConfig returns the configuration for a build locale.
func DefaultConfig(locale string) Config {
	return Config{
		Lang:      []string{Lang(locale)},
		Separator: `[\s\-]+`,
		Pipeline:  []string{"stopWordFilter"},
	}
}

// Lang reduces a locale such as "pt_BR" or "en-US" to its base language; anything
// unparsable falls back to "en".
func Lang(locale string) string {
	if locale == "" {
		return "en"
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "en"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "en"
	}
	return base.String()
}

// Entry is one searchable document: a page or a section of a page.
type Entry struct {
	Location string `json:"location"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Index collects entries in the order pages are added. It is not safe for
// concurrent mutation; the translation session serializes AddEntry.
type Index struct {
	config Config
	docs   []Entry
	strip  *bluemonday.Policy
}

// New returns an empty index.
func New(cfg Config) *Index {
	return &Index{config: cfg, strip: bluemonday.StrictPolicy()}
}

var _ translate.Indexer = (*Index)(nil)

// AddEntry adds the page and one entry per outline section.
func (ix *Index) AddEntry(page *translate.Page) error {
	if page == nil {
		return errors.SearchError("nil page").Build()
	}
	ix.docs = append(ix.docs, Entry{
		Location: page.URL,
		Title:    page.Title,
		Text:     ix.plainText(page.Content),
	})

	anchors := navtree.FlattenOutline(page.TOC)
	if len(anchors) == 0 {
		return nil
	}
	texts, err := sectionTexts(page.Content)
	if err != nil {
		return errors.WrapError(err, errors.CategorySearch, "split page into sections").
			WithContext("url", page.URL).
			Build()
	}
	for _, a := range anchors {
		id := a.ID()
		if id == "" {
			continue
		}
		ix.docs = append(ix.docs, Entry{
			Location: page.URL + "#" + id,
			Title:    a.Title,
			Text:     texts[id],
		})
	}
	return nil
}

// Len returns the number of entries.
func (ix *Index) Len() int { return len(ix.docs) }

// Entries returns a copy of the entries in insertion order.
func (ix *Index) Entries() []Entry { return append([]Entry(nil), ix.docs...) }

// WriteJSON writes the index document.
func (ix *Index) WriteJSON(w io.Writer) error {
	doc := struct {
		Config Config  `json:"config"`
		Docs   []Entry `json:"docs"`
	}{Config: ix.config, Docs: ix.docs}
	if doc.Docs == nil {
		doc.Docs = []Entry{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return errors.WrapError(err, errors.CategorySearch, "encode search index").Build()
	}
	return nil
}

func (ix *Index) plainText(content string) string {
	return collapse(html.UnescapeString(ix.strip.Sanitize(content)))
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
