package markdown

import (
	"path"
	"strings"
)

// LinkKind distinguishes link constructs found in a page body.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is one link destination found in a page body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// IsDocumentLink reports whether dest points at another Markdown page of the
// same site. Schemes, absolute paths and bare fragments are excluded.
func IsDocumentLink(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return false
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return false
	}
	p, _ := SplitFragment(dest)
	return strings.EqualFold(path.Ext(p), ".md")
}

// SplitFragment splits dest at its first '#'.
func SplitFragment(dest string) (p, fragment string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i+1:]
	}
	return dest, ""
}
