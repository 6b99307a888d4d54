package zerologadapter

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xutil/logging"
)

func benchHandler(b *testing.B, zl zerolog.Logger, fields []logging.Field) {
	var h logging.Handler = New(zl)
	r := logging.Record{
		At:         time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC),
		Level:      logging.LevelInfo,
		LoggerName: "bench",
		Message:    "bench",
		Fields:     fields,
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Handle(r)
	}
}

func BenchmarkZerologHandler_JSON_5Fields(b *testing.B) {
	benchHandler(b, zerolog.New(io.Discard), []logging.Field{
		logging.Str("a", "b"),
		logging.Int64("i", 42),
		logging.Bool("ok", true),
		logging.Dur("dur", time.Millisecond),
		logging.Float64("f", 3.14),
	})
}

func BenchmarkZerologHandler_JSON_NoFields(b *testing.B) {
	benchHandler(b, zerolog.New(io.Discard), nil)
}

func BenchmarkZerologHandler_Console(b *testing.B) {
	benchHandler(b, zerolog.New(NewConsoleWriter(io.Discard, false)), nil)
}
