package zerologadapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xutil/logging"
)

// LoggerFieldName is the key holding the logging hierarchy name.
const LoggerFieldName = "logger"

// Handler bridges logging records to rs/zerolog with low overhead.
//
// Optimizations:
//   - Fast pre-check using GetLevel() to avoid allocating zerolog.Event when
//     the level is disabled; Enabled exposes the same check to the hierarchy.
//   - Events are started with Logger.Log() and the level field is written as
//     the registered level name, so TRACE and VERBOSE survive unchanged.
type Handler struct {
	l     zerolog.Logger
	tsKey string
}

func New(l zerolog.Logger) *Handler {
	return &Handler{l: l, tsKey: "ts"}
}

// NewWithTimestampKey lets callers override the timestamp field key (default "ts").
func NewWithTimestampKey(l zerolog.Logger, tsKey string) *Handler {
	h := New(l)
	if tsKey != "" {
		h.tsKey = tsKey
	}
	return h
}

// Enabled reports whether zerolog would write a record at level.
func (h *Handler) Enabled(level logging.Level) bool {
	return mapLevel(level) >= h.l.GetLevel()
}

// Handle emits a single entry.
// - Single authoritative timestamp provided by the record passed as "ts".
// - CRITICAL never reaches zerolog.Fatal() (which would exit the process).
func (h *Handler) Handle(r logging.Record) {
	// Fast path: drop early if below logger's min level (no Event allocation).
	if !h.Enabled(r.Level) {
		return
	}

	ev := h.l.Log()
	// Ensure RFC3339Nano precision regardless of zerolog.TimeFieldFormat defaults.
	ev.Str(h.tsKey, r.At.UTC().Format(time.RFC3339Nano))
	ev.Str(zerolog.LevelFieldName, logging.LevelName(r.Level))
	ev.Str(LoggerFieldName, r.LoggerName)
	if r.Caller.Defined() {
		ev.Str(zerolog.CallerFieldName, r.Caller.String())
	}
	for i := range r.Fields {
		appendEventField(ev, r.Fields[i])
	}
	ev.Msg(r.Message)
}

// SetMinLevel propagates a minimum level into zerolog.
func (h *Handler) SetMinLevel(l logging.Level) {
	h.l = h.l.Level(mapLevel(l))
}

// mapLevel converts logging.Level to zerolog.Level. VERBOSE shares zerolog's
// debug level; CRITICAL is mapped to Error.
func mapLevel(l logging.Level) zerolog.Level {
	switch {
	case l < logging.LevelDebug:
		return zerolog.TraceLevel
	case l < logging.LevelInfo:
		return zerolog.DebugLevel
	case l < logging.LevelWarning:
		return zerolog.InfoLevel
	case l < logging.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// appendEventField writes a logging.Field to a zerolog.Event.
func appendEventField(e *zerolog.Event, f logging.Field) {
	switch v := f.Value.(type) {
	case nil:
		// nil errors are skipped
	case string:
		e.Str(f.Key, v)
	case int64:
		e.Int64(f.Key, v)
	case uint64:
		e.Uint64(f.Key, v)
	case float64:
		e.Float64(f.Key, v)
	case bool:
		e.Bool(f.Key, v)
	case time.Duration:
		e.Dur(f.Key, v)
	case time.Time:
		e.Time(f.Key, v)
	case error:
		if f.Key == "" || f.Key == "error" {
			e.Err(v)
		} else {
			e.AnErr(f.Key, v)
		}
	case []byte:
		e.Bytes(f.Key, v)
	default:
		e.Interface(f.Key, v)
	}
}
