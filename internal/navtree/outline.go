package navtree

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	derrors "git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// Anchor is an entry of a page's own heading outline. Unlike navigation Sections,
// an anchor with children keeps its link target.
type Anchor struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Level    int       `json:"level"`
	Children []*Anchor `json:"children,omitempty"`
}

// ID returns the fragment identifier the anchor points at, or "".
func (a *Anchor) ID() string {
	_, id, ok := strings.Cut(a.URL, "#")
	if !ok {
		return ""
	}
	return id
}

// ParseOutline reads a table-of-contents fragment of nested lists. Top-level items
// have Level 1. Items without an anchor fail the parse as in Parse.
func ParseOutline(markup string) ([]*Anchor, error) {
	lists, err := topLevelLists(markup)
	if err != nil {
		return nil, err
	}
	var out []*Anchor
	for i, ul := range lists {
		items, err := parseOutlineList(ul, strconv.Itoa(i+1)+".", 1)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func parseOutlineList(ul *goquery.Selection, prefix string, level int) ([]*Anchor, error) {
	var out []*Anchor
	var err error
	ul.ChildrenFiltered("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		position := prefix + strconv.Itoa(i+1)
		a := li.Find("a").First()
		if a.Length() == 0 {
			err = derrors.NavigationError("outline list item has no anchor").
				WithContext("position", position).
				WithContext("markup", outerHTML(li)).
				Build()
			return false
		}
		entry := &Anchor{Title: strings.TrimSpace(a.Text()), Level: level}
		entry.URL, _ = a.Attr("href")
		if nested := li.Find("ul").First(); nested.Length() > 0 {
			entry.Children, err = parseOutlineList(nested, position+".", level+1)
			if err != nil {
				return false
			}
		}
		out = append(out, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FlattenOutline lists anchors in document order.
func FlattenOutline(entries []*Anchor) []*Anchor {
	var out []*Anchor
	for _, e := range entries {
		out = append(out, e)
		out = append(out, FlattenOutline(e.Children)...)
	}
	return out
}
