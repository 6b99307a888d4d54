package zapadapter

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xutil/logging"
)

// Config is an explicit, code-first configuration for zap + logging.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	Level              logging.Level
	Console            bool                  // pretty console-like output via zapcore.NewConsoleEncoder
	EncoderConfig      zapcore.EncoderConfig // if zero, a sensible default is used
	TimestampFieldName string                // default "ts"

	// Manager receives the handler; nil selects the default hierarchy.
	Manager *logging.Manager
}

// NewHandler builds a zap-backed handler from cfg without installing it.
func NewHandler(cfg Config) *Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	// Encoder config defaults: do not let zap inject its own time (records carry "ts").
	// The caller comes from the record, so zap's own caller key stays off.
	encCfg := cfg.EncoderConfig
	if encCfg.LevelKey == "" && encCfg.MessageKey == "" && encCfg.EncodeTime == nil {
		encCfg = zapcore.EncoderConfig{
			LevelKey:       "level",
			MessageKey:     "message",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder, // used for zap.Time fields
			EncodeDuration: zapcore.StringDurationEncoder,
		}
	}
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	// AtomicLevel so Handler.SetMinLevel can adjust dynamically.
	al := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), al)
	zl := zap.New(core, zap.AddStacktrace(zapcore.FatalLevel+1)) // effectively off
	return NewWithTimestampKey(zl, &al, cfg.TimestampFieldName)
}

// Use builds a zap-backed handler from cfg, makes it the only handler of the
// root logger, sets the root level and returns the root adapter.
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
