package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPage       = "page"
	KeyTemplate   = "template"
	KeyTheme      = "theme"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyNavNodes   = "nav_nodes"
	KeyPages      = "pages"
	KeyDurationMS = "duration_ms"
	KeyWorkers    = "workers"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func NavNodes(n int) slog.Attr        { return slog.Int(KeyNavNodes, n) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
