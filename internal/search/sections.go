package search

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// sectionTexts cuts content at every heading carrying an id and returns the text
// following each heading up to the next one. Heading text itself is excluded.
func sectionTexts(content string) (map[string]string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(content), bodyContext)
	if err != nil {
		return nil, err
	}

	builders := map[string]*strings.Builder{}
	current := ""
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if id := attr(n, "id"); id != "" {
					current = id
					if _, ok := builders[id]; !ok {
						builders[id] = &strings.Builder{}
					}
					return
				}
			}
		case html.TextNode:
			if b := builders[current]; b != nil {
				b.WriteString(n.Data)
				b.WriteByte(' ')
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	out := make(map[string]string, len(builders))
	for id, b := range builders {
		out[id] = collapse(b.String())
	}
	return out, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
