// Package navtree reconstructs navigation trees from the list markup a host build
// pipeline emits for its table of contents.
//
// The host never exposes its site map as data, only as nested <ul>/<li> fragments
// rendered at a requested depth. Parse recovers the structure: an item with a nested
// list becomes a Section, anything else a Link, and the item carrying the "current"
// class is marked active. Flatten turns a tree into the ordered "all pages" list.
//
// Trees are owned top-down: a node owns its children and holds no parent pointer.
// They are built fresh for every translated page and never shared between pages.
package navtree
