package slogadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/trickstertwo/xutil/logging"
)

func TestSlogHandler_JSONHandler_EmitsTSAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sh := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := New(slog.New(sh))

	at := time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)
	h.Handle(logging.Record{
		At:         at,
		Level:      logging.LevelInfo,
		LoggerName: "pipe",
		Message:    "state changed",
		Fields: []logging.Field{
			logging.Str("from", "old"),
			logging.Int("count", 2),
			logging.Err(errors.New("boom")),
			logging.Err(nil),
		},
	})

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json unmarshal: %v; line=%s", err, buf.String())
	}
	if m["ts"] != at.Format(time.RFC3339Nano) {
		t.Fatalf("ts mismatch: got %v", m["ts"])
	}
	// Slog JSON handler numbers become float64 in generic map
	if m["from"] != "old" || m["count"] != float64(2) || m["error"] != "boom" {
		t.Fatalf("fields mismatch: %v", m)
	}
	if m["msg"] != "state changed" || m["logger"] != "pipe" {
		t.Fatalf("msg/logger mismatch: %v", m)
	}
}

func TestLevelMapping(t *testing.T) {
	t.Parallel()

	cases := map[logging.Level]slog.Level{
		logging.LevelTrace:    -6,
		logging.LevelDebug:    slog.LevelDebug,
		logging.LevelVerbose:  -2,
		logging.LevelInfo:     slog.LevelInfo,
		logging.LevelWarning:  slog.LevelWarn,
		logging.LevelError:    slog.LevelError,
		logging.LevelCritical: 12,
	}
	for l, want := range cases {
		if got := ToSlog(l); got != want {
			t.Fatalf("ToSlog(%s) = %d, want %d", l, got, want)
		}
		if back := FromSlog(want); back != l {
			t.Fatalf("FromSlog(%d) = %s, want %s", want, back, l)
		}
	}
}

func TestUsePrintsLevelNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := logging.NewManager()
	Use(Config{Writer: &buf, Level: logging.LevelVerbose, Manager: m})

	m.GetLogger("pipe").Verbose("visit %d", 3)
	m.GetLogger("pipe").Debug("dropped")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json unmarshal: %v; line=%s", err, buf.String())
	}
	if out["level"] != "VERBOSE" || out["msg"] != "visit 3" {
		t.Fatalf("unexpected output %v", out)
	}
}

func TestSetMinLevel(t *testing.T) {
	t.Parallel()

	h := NewHandler(Config{Writer: &bytes.Buffer{}, Level: logging.LevelWarning})
	if h.Enabled(logging.LevelInfo) {
		t.Fatalf("INFO enabled at WARNING")
	}
	h.SetMinLevel(logging.LevelTrace)
	if !h.Enabled(logging.LevelTrace) {
		t.Fatalf("SetMinLevel did not lower the level")
	}
}
