package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NavItem is one entry of the configured outline. In YAML it is written as a bare
// page path, a single-key mapping from title to page path, or a single-key mapping
// from title to a list of entries.
//
//	nav:
//	  - index.md
//	  - Guide:
//	      - Intro: guide/intro.md
//	      - guide/install.md
type NavItem struct {
	Title    string
	Page     string
	Children []NavItem
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NavItem) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n.Page = node.Value
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: nav entry must have exactly one title", node.Line)
		}
		n.Title = node.Content[0].Value
		value := node.Content[1]
		switch value.Kind {
		case yaml.ScalarNode:
			n.Page = value.Value
			return nil
		case yaml.SequenceNode:
			return value.Decode(&n.Children)
		default:
			return fmt.Errorf("line %d: nav entry %q must map to a page or a list", value.Line, n.Title)
		}
	default:
		return fmt.Errorf("line %d: unsupported nav entry", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (n NavItem) MarshalYAML() (any, error) {
	switch {
	case len(n.Children) > 0:
		return map[string]any{n.Title: n.Children}, nil
	case n.Title != "":
		return map[string]string{n.Title: n.Page}, nil
	default:
		return n.Page, nil
	}
}
