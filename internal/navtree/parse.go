package navtree

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	derrors "git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// CurrentClass marks the list item of the page being rendered.
const CurrentClass = "current"

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse reconstructs the navigation tree described by markup.
//
// Every top-level <ul> contributes its items in order; other top-level content is
// skipped. A list item without an anchor fails the whole parse: no partial tree is
// returned.
func Parse(markup string) ([]*Node, error) {
	lists, err := topLevelLists(markup)
	if err != nil {
		return nil, err
	}

	var roots []*Node
	for i, ul := range lists {
		items, err := parseList(ul, strconv.Itoa(i+1)+".")
		if err != nil {
			return nil, err
		}
		roots = append(roots, items...)
	}
	return roots, nil
}

// topLevelLists returns the <ul> elements at the top of markup, in document order.
func topLevelLists(markup string) ([]*goquery.Selection, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, nil
	}

	top, err := html.ParseFragment(strings.NewReader(markup), fragmentContext)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNavigation, "parse navigation markup").Build()
	}

	var lists []*goquery.Selection
	for _, n := range top {
		if n.Type != html.ElementNode {
			continue
		}
		if n.DataAtom != atom.Ul {
			slog.Debug("Skipping non-list navigation element", slog.String("element", n.Data))
			continue
		}
		lists = append(lists, goquery.NewDocumentFromNode(n).Selection)
	}
	return lists, nil
}

// parseList converts the direct <li> children of ul. prefix is the dotted position of
// the enclosing item, used only for error context.
func parseList(ul *goquery.Selection, prefix string) ([]*Node, error) {
	items := ul.ChildrenFiltered("li")
	nodes := make([]*Node, 0, items.Length())

	var err error
	items.EachWithBreak(func(i int, li *goquery.Selection) bool {
		var node *Node
		node, err = parseItem(li, prefix+strconv.Itoa(i+1))
		if err != nil {
			return false
		}
		nodes = append(nodes, node)
		return true
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func parseItem(li *goquery.Selection, position string) (*Node, error) {
	anchor := li.Find("a").First()
	if anchor.Length() == 0 {
		return nil, derrors.NavigationError("navigation list item has no anchor").
			WithContext("position", position).
			WithContext("markup", outerHTML(li)).
			Build()
	}

	node := &Node{
		Kind:   KindLink,
		Title:  strings.TrimSpace(anchor.Text()),
		Active: li.HasClass(CurrentClass),
	}

	nested := li.Find("ul").First()
	if nested.Length() == 0 {
		node.URL, _ = anchor.Attr("href")
		return node, nil
	}

	children, err := parseList(nested, position+".")
	if err != nil {
		return nil, err
	}
	node.Kind = KindSection
	node.Children = children
	return node, nil
}

func outerHTML(s *goquery.Selection) string {
	out, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	if len(out) > 200 {
		return out[:200] + "…"
	}
	return out
}
