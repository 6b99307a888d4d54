package slogadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/trickstertwo/xutil/logging"
)

// Handler adapts logging records to the Go slog API (Handler Strategy).
// It builds slog.Attrs directly for low overhead and uses LogAttrs.
type Handler struct {
	l     *slog.Logger
	lv    *slog.LevelVar // optional, enables SetMinLevel
	tsKey string
}

// ToSlog maps a level onto slog's scale: INFO is 0 and each step of 5 is a
// step of 2, so DEBUG=-4, WARNING=4, ERROR=8, TRACE=-6 and VERBOSE=-2.
func ToSlog(l logging.Level) slog.Level {
	return slog.Level((int(l) - int(logging.LevelInfo)) * 2 / 5)
}

// FromSlog is the inverse of ToSlog.
func FromSlog(l slog.Level) logging.Level {
	return logging.Level(int(l)*5/2 + int(logging.LevelInfo))
}

func New(l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{l: l, tsKey: "ts"}
}

// NewWithTimestampKey wires an optional LevelVar and overrides the timestamp
// key (default "ts").
func NewWithTimestampKey(l *slog.Logger, lv *slog.LevelVar, tsKey string) *Handler {
	h := New(l)
	h.lv = lv
	if tsKey != "" {
		h.tsKey = tsKey
	}
	return h
}

// Enabled reports whether the slog handler accepts level.
func (h *Handler) Enabled(level logging.Level) bool {
	return h.l.Enabled(context.Background(), ToSlog(level))
}

func (h *Handler) Handle(r logging.Record) {
	attrs := make([]slog.Attr, 0, len(r.Fields)+3)

	// Single authoritative timestamp provided by the record
	attrs = append(attrs, slog.Time(h.tsKey, r.At), slog.String("logger", r.LoggerName))
	if r.Caller.Defined() {
		attrs = append(attrs, slog.String("caller", r.Caller.String()))
	}
	for i := range r.Fields {
		if r.Fields[i].Value == nil {
			continue
		}
		attrs = append(attrs, toAttr(r.Fields[i]))
	}

	// Use LogAttrs for minimal allocations
	h.l.LogAttrs(context.Background(), ToSlog(r.Level), r.Message, attrs...)
}

// SetMinLevel updates the LevelVar when one was supplied.
func (h *Handler) SetMinLevel(l logging.Level) {
	if h.lv == nil {
		return
	}
	h.lv.Set(ToSlog(l))
}

// ReplaceLevelNames is a slog.HandlerOptions.ReplaceAttr that prints the
// registered level name ("VERBOSE") instead of slog's "DEBUG+2".
func ReplaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok {
		return slog.String(slog.LevelKey, logging.LevelName(FromSlog(l)))
	}
	return a
}

func toAttr(f logging.Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case uint64:
		return slog.Uint64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, v)
	case bool:
		return slog.Bool(f.Key, v)
	case time.Duration:
		return slog.Duration(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	case error:
		return slog.String(f.Key, v.Error())
	default:
		return slog.Any(f.Key, v)
	}
}
