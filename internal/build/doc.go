// Package build runs a complete site build: it loads the theme and the docs
// directory, renders every page through the theme bridge, publishes the theme's
// static templates and assets, and writes the search index.
//
// All execution paths (CLI build, preview server, tests) route through Builder.
package build
