package hostsite

import (
	"path"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/config"
	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
	"git.home.luguber.info/inful/themebridge/internal/host"
)

// Entry is one node of the site outline. Exactly one of Page, URL or Children
// is set.
type Entry struct {
	Title string
	// Page is the page name of a document entry.
	Page string
	// URL is the target of an external link entry.
	URL      string
	Hidden   bool
	Children []*Entry
}

// IsSection reports whether the entry groups other entries.
func (e *Entry) IsSection() bool { return len(e.Children) > 0 }

func (e *Entry) contains(page string) bool {
	if e.Page == page {
		return true
	}
	for _, c := range e.Children {
		if c.contains(page) {
			return true
		}
	}
	return false
}

// outlineFromNav lays out the configured nav. Pages the nav does not mention are
// appended as hidden entries so exhaustive listings still reach them.
func (s *Site) outlineFromNav(items []config.NavItem) ([]*Entry, error) {
	used := map[string]bool{}
	entries, err := s.navEntries(items, used)
	if err != nil {
		return nil, err
	}
	for _, name := range s.order {
		if used[name] {
			continue
		}
		p := s.pages[name]
		entries = append(entries, &Entry{Title: p.Title, Page: name, Hidden: true})
	}
	return entries, nil
}

func (s *Site) navEntries(items []config.NavItem, used map[string]bool) ([]*Entry, error) {
	out := make([]*Entry, 0, len(items))
	for _, it := range items {
		if len(it.Children) > 0 {
			children, err := s.navEntries(it.Children, used)
			if err != nil {
				return nil, err
			}
			out = append(out, &Entry{Title: it.Title, Children: children})
			continue
		}
		if strings.Contains(it.Page, "://") {
			title := it.Title
			if title == "" {
				title = it.Page
			}
			out = append(out, &Entry{Title: title, URL: it.Page})
			continue
		}
		name, ok := s.bySource[path.Clean(it.Page)]
		if !ok {
			return nil, errors.NavigationError("nav references a missing page").
				WithContext("page", it.Page).
				Build()
		}
		used[name] = true
		p := s.pages[name]
		title := it.Title
		if title == "" {
			title = p.Title
		}
		out = append(out, &Entry{Title: title, Page: name, Hidden: p.Hidden})
	}
	return out, nil
}

// outlineFromDirs lays out pages by directory: the index page first, then files
// and subdirectories in lexical order.
func (s *Site) outlineFromDirs() []*Entry {
	dirs := map[string][]string{}
	for _, name := range s.order {
		src := s.pages[name].Source
		for d := path.Dir(src); d != "."; d = path.Dir(d) {
			parent := path.Dir(d)
			if !slices.Contains(dirs[parent], d) {
				dirs[parent] = append(dirs[parent], d)
			}
		}
	}
	return s.dirEntries(".", dirs)
}

func (s *Site) dirEntries(dir string, dirs map[string][]string) []*Entry {
	type child struct {
		key   string
		entry *Entry
	}
	var index *Entry
	var children []child

	for _, name := range s.order {
		p := s.pages[name]
		if path.Dir(p.Source) != dir {
			continue
		}
		e := &Entry{Title: p.Title, Page: name, Hidden: p.Hidden}
		if path.Base(name) == host.IndexName {
			index = e
			continue
		}
		children = append(children, child{key: path.Base(p.Source), entry: e})
	}
	for _, d := range dirs[dir] {
		sub := s.dirEntries(d, dirs)
		if len(sub) == 0 {
			continue
		}
		children = append(children, child{key: path.Base(d), entry: &Entry{Title: prettify(path.Base(d)), Children: sub}})
	}
	sort.SliceStable(children, func(i, j int) bool { return children[i].key < children[j].key })

	out := make([]*Entry, 0, len(children)+1)
	if index != nil {
		out = append(out, index)
	}
	for _, c := range children {
		out = append(out, c.entry)
	}
	return out
}
