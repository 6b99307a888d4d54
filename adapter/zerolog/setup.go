package zerologadapter

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xutil/logging"
)

// Config is an explicit, code-first configuration for zerolog + logging.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	Level              logging.Level
	Console            bool   // "LEVEL name: message" console output instead of JSON
	Caller             bool   // show the caller column in console output
	TimestampFieldName string // default "ts"

	// Manager receives the handler; nil selects the default hierarchy.
	Manager *logging.Manager
}

// NewHandler builds a zerolog-backed handler from cfg without installing it.
func NewHandler(cfg Config) *Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	var zl zerolog.Logger
	if cfg.Console {
		zl = zerolog.New(NewConsoleWriter(w, cfg.Caller))
	} else {
		zl = zerolog.New(w)
	}
	h := NewWithTimestampKey(zl, cfg.TimestampFieldName)
	h.SetMinLevel(cfg.Level)
	return h
}

// NewConsoleWriter returns a plain-text writer laid out as
// "LEVEL name: message key=value". The timestamp is not shown.
func NewConsoleWriter(w io.Writer, caller bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:           w,
		NoColor:       true,
		PartsOrder:    []string{zerolog.LevelFieldName, LoggerFieldName, zerolog.MessageFieldName},
		FieldsExclude: []string{LoggerFieldName, "ts"},
		FormatLevel: func(i any) string {
			return fmt.Sprintf("%-5s", i)
		},
		FormatPrepare: func(evt map[string]any) error {
			if name, ok := evt[LoggerFieldName].(string); ok {
				evt[LoggerFieldName] = name + ":"
			}
			return nil
		},
	}
	if caller {
		cw.PartsOrder = append(cw.PartsOrder, zerolog.CallerFieldName)
	}
	return cw
}

// Use builds a zerolog-backed handler from cfg, makes it the only handler of
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
		// Build only fails without a handler, which cannot happen here.
		panic(err)
	}
	m.Configure(lc)
	return m.GetLogger("")
}
