package zerologadapter

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xutil/logging"
)

// Env:
//
//	XUTIL_LOG_CONSOLE=1 : "LEVEL name: message" console output instead of JSON
//	XUTIL_LOG_CALLER=1  : show the caller column in console output
//
// Importing this package makes zerolog the default handler used by
// logging.BasicConfig, logging.Builder.WithDefaultHandler and the last-resort
// path. Levels are left to the logger hierarchy.
func init() {
	logging.RegisterDefaultHandlerFactory(func(w io.Writer) logging.Handler {
		if w == nil {
			w = os.Stderr
		}
		if os.Getenv("XUTIL_LOG_CONSOLE") == "1" {
			cw := NewConsoleWriter(w, os.Getenv("XUTIL_LOG_CALLER") == "1")
			return New(zerolog.New(cw).Level(zerolog.TraceLevel))
		}
		return New(zerolog.New(w).Level(zerolog.TraceLevel))
	})
}
