package logging

import "time"

// Field is a structured key/value attached to a record. Handlers convert the
// value with a type switch; unknown types fall back to the backend's "any".
type Field struct {
	Key   string
	Value any
}

func Str(k, v string) Field               { return Field{Key: k, Value: v} }
func Int(k string, v int) Field           { return Field{Key: k, Value: int64(v)} }
func Int64(k string, v int64) Field       { return Field{Key: k, Value: v} }
func Uint64(k string, v uint64) Field     { return Field{Key: k, Value: v} }
func Float64(k string, v float64) Field   { return Field{Key: k, Value: v} }
func Bool(k string, v bool) Field         { return Field{Key: k, Value: v} }
func Dur(k string, v time.Duration) Field { return Field{Key: k, Value: v} }
func Time(k string, v time.Time) Field    { return Field{Key: k, Value: v} }
func Any(k string, v any) Field           { return Field{Key: k, Value: v} }

// Err binds err under "error". A nil error produces a field handlers skip.
func Err(err error) Field { return Field{Key: "error", Value: err} }

func joinFields(base, extra []Field) []Field {
	if len(base) == 0 {
		return extra
	}
	if len(extra) == 0 {
		return base
	}
	out := make([]Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
