// Package translate turns a host pipeline's per-page render context into the
// context a foreign theme's templates expect.
//
// A Session is created once per build around a theme handle and an optional search
// indexer. Translate is then called once per page; it resolves theme options,
// reconstructs navigation from the host's toctree markup, describes the page, feeds
// the indexer and returns the translated context with the template to render.
// Translate may be called from several goroutines; indexer writes are serialized.
package translate
