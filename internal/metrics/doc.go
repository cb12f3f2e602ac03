// Package metrics provides the observability hooks for translation and build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never need nil checks at call sites:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	session, err := translate.NewSession(handle, translate.WithRecorder(recorder))
//
// HTTPHandler exposes a registry for scraping; the preview server mounts it at /metrics.
package metrics
