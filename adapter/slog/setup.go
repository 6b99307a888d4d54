package slogadapter

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/xutil/logging"
)

// Format selects the slog handler format.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is an explicit, code-first configuration for slog + logging.
// One call to Use wires a slog-backed handler on the root logger.
type Config struct {
	Writer             io.Writer            // default: os.Stdout
	Level              logging.Level        // root level; slog's LevelVar follows it
	Format             Format               // JSON (default) or Text
	HandlerOptions     *slog.HandlerOptions // optional; Level is managed via LevelVar
	TimestampFieldName string               // default "ts"

	// Manager receives the handler; nil selects the default hierarchy.
	Manager *logging.Manager
}

// NewHandler builds a slog-backed handler from cfg without installing it.
// Level names are printed with ReplaceLevelNames unless the options carry
// their own ReplaceAttr.
func NewHandler(cfg Config) *Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{}
	if cfg.HandlerOptions != nil {
		*opts = *cfg.HandlerOptions
	}
	if opts.ReplaceAttr == nil {
		opts.ReplaceAttr = ReplaceLevelNames
	}

	// A LevelVar allows SetMinLevel on the handler.
	lv := new(slog.LevelVar)
	lv.Set(ToSlog(cfg.Level))
	opts.Level = lv

	var sh slog.Handler
	if cfg.Format == FormatText {
		sh = slog.NewTextHandler(w, opts)
	} else {
		sh = slog.NewJSONHandler(w, opts)
	}
	return NewWithTimestampKey(slog.New(sh), lv, cfg.TimestampFieldName)
}

// Use builds a slog-backed handler from cfg, makes it the only handler of
// the root logger, sets the root level and returns the root adapter.
func Use(cfg Config) *logging.Adapter {
	m := cfg.Manager
	if m == nil {
		m = logging.DefaultManager()
	}
	lc, err := logging.NewBuilder().
		WithLevel(cfg.Level).
		AddHandler(NewHandler(cfg)).
		ReplaceHandlers().
		Build()
	if err != nil {
		panic(err)
	}
	m.Configure(lc)
	return m.GetLogger("")
}
