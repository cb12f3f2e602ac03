// Package hostsite is a small host build pipeline over a directory of Markdown
// pages. It discovers pages, renders their bodies, lays out the site outline and
// produces the per-page host contexts and navigation fragments that the translator
// consumes.
package hostsite
