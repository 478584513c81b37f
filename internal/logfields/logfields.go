package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProfileID = "profile_id"
	KeyProjectID = "project_id"
	KeyServiceID = "service_id"
	KeyEntryID   = "entry_id"
	KeyTodoID    = "todo_id"
	KeyProfile   = "profile"
	KeyEvent     = "event"
	KeyElapsed   = "elapsed_sec"
	KeyVersion   = "schema_version"
	KeyPath      = "path"
	KeyError     = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ProfileID(id int64) slog.Attr  { return slog.Int64(KeyProfileID, id) }
func ProjectID(id int64) slog.Attr  { return slog.Int64(KeyProjectID, id) }
func ServiceID(id int64) slog.Attr  { return slog.Int64(KeyServiceID, id) }
func EntryID(id int64) slog.Attr    { return slog.Int64(KeyEntryID, id) }
func TodoID(id int64) slog.Attr     { return slog.Int64(KeyTodoID, id) }
func Profile(name string) slog.Attr { return slog.String(KeyProfile, name) }
func Event(name string) slog.Attr   { return slog.String(KeyEvent, name) }
func Elapsed(sec int64) slog.Attr   { return slog.Int64(KeyElapsed, sec) }
func SchemaVersion(v int) slog.Attr { return slog.Int(KeyVersion, v) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
