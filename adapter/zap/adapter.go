package zapadapter

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xutil/logging"
)

// Handler bridges logging records to go.uber.org/zap with low overhead.
//
// Optimizations:
//   - Implements Enabled so the logger hierarchy skips records zap would
//     drop before any field is converted.
//   - Uses Logger.Check(level, msg) to avoid building fields when disabled.
//   - Guarantees RFC3339Nano "ts" precision by writing it as a string field.
//
// zap has no TRACE or VERBOSE; both are written at zap's debug level and the
// exact name is kept in the "levelname" field.
type Handler struct {
	l     *zap.Logger
	al    *zap.AtomicLevel // optional, enables SetMinLevel
	tsKey string           // timestamp field key; default "ts"
}

// New creates a handler for the provided zap logger.
func New(l *zap.Logger) *Handler {
	if l == nil {
		l = zap.NewNop()
	}
	return &Handler{l: l, tsKey: "ts"}
}

// NewWithAtomicLevel wires a zap.AtomicLevel so SetMinLevel can adjust the
// backend's filter.
func NewWithAtomicLevel(l *zap.Logger, al *zap.AtomicLevel) *Handler {
	h := New(l)
	h.al = al
	return h
}

// NewWithTimestampKey lets callers override the timestamp field key (default "ts").
func NewWithTimestampKey(l *zap.Logger, al *zap.AtomicLevel, tsKey string) *Handler {
	h := NewWithAtomicLevel(l, al)
	if tsKey != "" {
		h.tsKey = tsKey
	}
	return h
}

// Enabled reports whether zap would write a record at level.
func (h *Handler) Enabled(level logging.Level) bool {
	return h.l.Core().Enabled(toZapLevel(level))
}

// Handle emits a single entry.
// - Uses the record's authoritative timestamp as tsKey with RFC3339Nano precision.
// - Maps CRITICAL to Error to avoid os.Exit in library code.
func (h *Handler) Handle(r logging.Record) {
	ce := h.l.Check(toZapLevel(r.Level), r.Message)
	if ce == nil {
		return
	}

	zfs := make([]zap.Field, 0, 4+len(r.Fields))
	zfs = append(zfs,
		zap.String(h.tsKey, r.At.UTC().Format(time.RFC3339Nano)),
		zap.String("logger", r.LoggerName),
		zap.String("levelname", logging.LevelName(r.Level)),
	)
	if r.Caller.Defined() {
		zfs = append(zfs, zap.String("caller", r.Caller.String()))
	}
	for i := range r.Fields {
		zfs = append(zfs, toZapField(r.Fields[i]))
	}
	ce.Write(zfs...)
}

// SetMinLevel updates the backend filter when an AtomicLevel was supplied.
// If not provided, this is a no-op (logger levels still apply).
func (h *Handler) SetMinLevel(l logging.Level) {
	if h.al == nil {
		return
	}
	h.al.SetLevel(toZapLevel(l))
}

func toZapLevel(l logging.Level) zapcore.Level {
	switch {
	case l < logging.LevelInfo:
		return zapcore.DebugLevel // TRACE, DEBUG and VERBOSE
	case l < logging.LevelWarning:
		return zapcore.InfoLevel
	case l < logging.LevelError:
		return zapcore.WarnLevel
	default:
		// Avoid Fatal/DPanic to prevent exits in library code.
		return zapcore.ErrorLevel
	}
}

func toZapField(f logging.Field) zap.Field {
	switch v := f.Value.(type) {
	case nil:
		return zap.Skip()
	case string:
		return zap.String(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case uint64:
		return zap.Uint64(f.Key, v)
	case float64:
		return zap.Float64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v) // encoder decides string vs numeric
	case time.Time:
		return zap.Time(f.Key, v)
	case error:
		if f.Key == "" || f.Key == "error" {
			return zap.Error(v)
		}
		return zap.NamedError(f.Key, v)
	case []byte:
		return zap.ByteString(f.Key, v)
	default:
		return zap.Any(f.Key, v)
	}
}
