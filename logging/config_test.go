package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigYAML(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`
level: verbose
loggers:
  pipe.task: DEBUG
  TRACE2.pipe: 10
  legacy: 30000
replace_handlers: true
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Level != LevelVerbose || !cfg.ReplaceHandlers {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Loggers["pipe.task"] != LevelDebug || cfg.Loggers["TRACE2.pipe"] != LevelDebug {
		t.Fatalf("logger levels %+v", cfg.Loggers)
	}

	m, rec := newTestHierarchy(t, LevelWarning)
	m.Configure(cfg)
	if m.Root().Level() != LevelVerbose {
		t.Fatalf("root level %s", m.Root().Level())
	}
	if m.Logger("legacy").Level() != LevelWarning {
		t.Fatalf("foreign level not rescaled: %s", m.Logger("legacy").Level())
	}
	if len(m.Root().Handlers()) != 0 {
		t.Fatalf("ReplaceHandlers kept %d handlers", len(m.Root().Handlers()))
	}
	if !rec.Contains(LevelWarning, "foreign log level") {
		t.Fatalf("rescale warning missing: %v", rec.Messages())
	}
}

func TestParseConfigRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig([]byte("level: shouty\n"))
	if !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.yaml")
	if err := os.WriteFile(path, []byte("level: TRACE\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil || cfg.Level != LevelTrace {
		t.Fatalf("LoadConfig: %+v %v", cfg, err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("XUTIL_LOG_LEVEL", "debug")
	t.Setenv("XUTIL_LOG_LEVELS", "a.b=VERBOSE, c=40")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Level != LevelDebug || cfg.Loggers["a.b"] != LevelVerbose || cfg.Loggers["c"] != LevelError {
		t.Fatalf("unexpected config %+v", cfg)
	}

	t.Setenv("XUTIL_LOG_LEVELS", "broken")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatalf("malformed entry accepted")
	}
}

func TestBuildIgnoresDefaultFactory(t *testing.T) {
	RegisterDefaultHandlerFactory(func(w io.Writer) Handler { return NewStreamHandler(w) })
	t.Cleanup(func() { RegisterDefaultHandlerFactory(nil) })

	if _, err := NewBuilder().WithLevel(LevelInfo).Build(); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler with a default factory registered, got %v", err)
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder().Build(); !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}

	rec := NewRecorder()
	cfg, err := NewBuilder().
		WithLevel(LevelDebug).
		WithLoggerLevel("x", LevelError).
		Merge(Config{Loggers: map[string]Level{"y": LevelTrace}}).
		AddHandler(rec).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	m := NewManager()
	m.Configure(cfg)
	m.GetLogger("y").Trace("traced")
	m.GetLogger("x").Warning("filtered")
	if got := rec.Messages(); len(got) != 1 || got[0] != "traced" {
		t.Fatalf("got %v", got)
	}
}
