package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyField      = "field"
	KeyValue      = "value"
	KeyDefault    = "default"
	KeyFormat     = "format"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyKind       = "kind"
	KeyName       = "name"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Value(v any) slog.Attr           { return slog.Any(KeyValue, v) }
func Default(v any) slog.Attr         { return slog.Any(KeyDefault, v) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
