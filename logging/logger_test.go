package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xclock/adapter/frozen"
)

func newTestHierarchy(t *testing.T, rootLevel Level) (*Manager, *Recorder) {
	t.Helper()
	m := NewManager()
	rec := NewRecorder()
	m.Root().AddHandler(rec)
	m.Root().SetLevel(rootLevel)
	return m, rec
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	order := []Level{LevelTrace, LevelDebug, LevelVerbose, LevelInfo, LevelWarning, LevelError, LevelCritical}
	want := []int{5, 10, 15, 20, 30, 40, 50}
	for i, l := range order {
		if int(l) != want[i] {
			t.Fatalf("level %s = %d, want %d", l, int(l), want[i])
		}
		if i > 0 && !(order[i-1] < l) {
			t.Fatalf("%s must be below %s", order[i-1], l)
		}
	}
	if LevelName(LevelTrace) != "TRACE" || LevelName(LevelVerbose) != "VERBOSE" {
		t.Fatalf("custom names not registered: %q %q", LevelName(LevelTrace), LevelName(LevelVerbose))
	}
	if got := LevelName(Level(27)); got != "Level 27" {
		t.Fatalf("unknown level name: %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"verbose": LevelVerbose,
		"TRACE":   LevelTrace,
		"warn":    LevelWarning,
		"fatal":   LevelCritical,
		" 25 ":    Level(25),
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestHierarchyEffectiveLevelAndPropagation(t *testing.T) {
	t.Parallel()

	m, rec := newTestHierarchy(t, LevelInfo)
	child := m.Logger("pipe.task.sub")
	if child.Parent().Name() != "pipe.task" || child.Parent().Parent().Name() != "pipe" {
		t.Fatalf("ancestors not created: %q", child.Parent().Name())
	}
	if child.EffectiveLevel() != LevelInfo {
		t.Fatalf("effective level: got %s", child.EffectiveLevel())
	}
	m.Logger("pipe").SetLevel(LevelDebug)
	if child.EffectiveLevel() != LevelDebug {
		t.Fatalf("effective level after parent change: got %s", child.EffectiveLevel())
	}

	child.Log(LevelDebug, "seen")
	local := NewRecorder()
	child.AddHandler(local)
	child.SetPropagate(false)
	child.Log(LevelDebug, "local only")

	if got := rec.Messages(); len(got) != 1 || got[0] != "seen" {
		t.Fatalf("root handler got %v", got)
	}
	if got := local.Messages(); len(got) != 1 || got[0] != "local only" {
		t.Fatalf("child handler got %v", got)
	}
}

func TestHandlerAddRemove(t *testing.T) {
	t.Parallel()

	m := NewManager()
	l := m.Logger("a")

	// Closures from one literal are distinct handlers.
	counts := make([]int, 2)
	for i := range counts {
		l.AddHandler(HandlerFunc(func(Record) { counts[i]++ }))
	}
	if len(l.Handlers()) != 2 {
		t.Fatalf("handlers attached: %d", len(l.Handlers()))
	}
	l.Log(LevelError, "x")
	if counts[0] != 1 || counts[1] != 1 {
		t.Fatalf("counts: %v", counts)
	}
	l.ClearHandlers()

	var n int
	fh := NewFuncHandler(func(Record) { n++ })
	l.AddHandler(fh)
	l.AddHandler(fh)
	if len(l.Handlers()) != 1 {
		t.Fatalf("duplicate handler added: %d", len(l.Handlers()))
	}
	l.Log(LevelError, "x")
	l.RemoveHandler(fh)
	if len(l.Handlers()) != 0 {
		t.Fatalf("handler not removed")
	}
	if n != 1 {
		t.Fatalf("handler calls: %d", n)
	}

	// A struct holding a func is not comparable; its pointer is.
	lh := &LeveledHandler{Handler: HandlerFunc(func(Record) {}), Min: LevelInfo}
	l.AddHandler(lh)
	l.AddHandler(lh)
	l.RemoveHandler(lh)
	if len(l.Handlers()) != 0 {
		t.Fatalf("handlers after add x2, remove: %d", len(l.Handlers()))
	}

	l.AddHandler(LeveledHandler{Handler: HandlerFunc(func(Record) {}), Min: LevelInfo})
	l.AddHandler(LeveledHandler{Handler: HandlerFunc(func(Record) {}), Min: LevelInfo})
	if len(l.Handlers()) != 2 {
		t.Fatalf("non-comparable handlers deduplicated: %d", len(l.Handlers()))
	}
}

func TestConfigureReplacesFuncHandlers(t *testing.T) {
	t.Parallel()

	m := NewManager()
	var old int
	m.Root().AddHandler(HandlerFunc(func(Record) { old++ }))
	m.Root().AddHandler(LeveledHandler{Handler: HandlerFunc(func(Record) { old++ })})
	rec := NewRecorder()
	m.Configure(Config{Level: LevelInfo, ReplaceHandlers: true, Handlers: []Handler{rec}})

	m.GetLogger("x").Info("only the recorder")
	if old != 0 {
		t.Fatalf("replaced handlers still called %d times", old)
	}
	if got := rec.Messages(); len(got) != 1 {
		t.Fatalf("recorder got %v", got)
	}
}

func TestLeveledHandlerFilters(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Root().SetLevel(LevelTrace)
	rec := NewRecorder()
	m.Root().AddHandler(LeveledHandler{Handler: rec, Min: LevelInfo})
	m.Root().Log(LevelVerbose, "dropped")
	m.Root().Log(LevelInfo, "kept")
	if got := rec.Messages(); len(got) != 1 || got[0] != "kept" {
		t.Fatalf("got %v", got)
	}
}

func TestRecordTimestampFromClock(t *testing.T) {
	// Freeze time for determinism
	old := xclock.Default()
	defer xclock.SetDefault(old)
	ft := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	xclock.SetDefault(frozen.New(ft))

	m, rec := newTestHierarchy(t, LevelInfo)
	m.GetLogger("clock").Info("tick")

	recs := rec.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !recs[0].At.Equal(ft) {
		t.Fatalf("timestamp mismatch: got %s want %s", recs[0].At, ft)
	}
	if recs[0].LoggerName != "clock" {
		t.Fatalf("logger name: %q", recs[0].LoggerName)
	}
}

func TestObserverSeesLevelChanges(t *testing.T) {
	t.Parallel()

	m := NewManager()
	var got []ConfigChange
	l := m.Logger("obs")
	l.AddObserver(ObserverFunc(func(c ConfigChange) { got = append(got, c) }))
	l.SetLevel(LevelDebug)
	l.SetLevel(LevelError)

	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	if got[0].OldLevel != LevelNotSet || got[0].NewLevel != LevelDebug || got[1].OldLevel != LevelDebug {
		t.Fatalf("unexpected changes %+v", got)
	}
}

func TestStreamHandlerLayout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewStreamHandler(&buf)
	h.Handle(Record{Level: LevelInfo, LoggerName: "a.b", Message: "hello"})
	h.Handle(Record{Level: LevelVerbose, LoggerName: "a", Message: "more"})

	want := "INFO  a.b: hello\nVERBOSE a: more\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}
