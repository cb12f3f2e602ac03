package host

import "strings"

const (
	// PageTemplate is the template the host renders every document with.
	PageTemplate = "page.html"
	// IndexName is the root-page suffix of a directory's index document.
	IndexName = "index"
)

// PageURL returns the directory-style URL of a page: "guide/index" is "guide/",
// "guide/intro" is "guide/intro/" and "index" is "".
func PageURL(pagename string) string {
	if pagename == IndexName {
		return ""
	}
	if dir, ok := strings.CutSuffix(pagename, "/"+IndexName); ok {
		return dir + "/"
	}
	return pagename + "/"
}

// OutputPath returns the file a page is written to, relative to the output root.
func OutputPath(pagename string) string {
	return PageURL(pagename) + "index.html"
}
