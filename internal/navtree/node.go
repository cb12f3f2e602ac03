package navtree

// Kind discriminates the two navigation node variants.
type Kind int

const (
	// KindLink is a leaf pointing at a URL.
	KindLink Kind = iota
	// KindSection groups child nodes; its source item contained a nested list.
	KindSection
)

func (k Kind) String() string {
	if k == KindSection {
		return "section"
	}
	return "link"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Node is one navigation entry.
type Node struct {
	Kind     Kind    `json:"kind"`
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"` // empty for sections
	Active   bool    `json:"active"`
	Children []*Node `json:"children,omitempty"`
}

// IsSection reports whether the node groups children.
func (n *Node) IsSection() bool { return n.Kind == KindSection }

// IsLink reports whether the node is a leaf link.
func (n *Node) IsLink() bool { return n.Kind == KindLink }

// IsPage is always false: navigation entries are never the rendered page itself.
func (n *Node) IsPage() bool { return false }

// Count returns the number of nodes reachable from roots.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}

// Flatten returns every node reachable from roots in document order: a node comes
// before its children, and its children before its next sibling.
func Flatten(roots []*Node) []*Node {
	out := make([]*Node, 0, Count(roots))
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}

// Active returns the first active node in document order, descending into its
// active children so a marked section yields the marked page inside it.
func Active(roots []*Node) *Node {
	for _, n := range Flatten(roots) {
		if n.Active {
			if inner := Active(n.Children); inner != nil {
				return inner
			}
			return n
		}
	}
	return nil
}
