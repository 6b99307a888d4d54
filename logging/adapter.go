package logging

import (
	"fmt"
	"runtime"
)

// Adapter wraps a hierarchical Logger with the conveniences application code
// expects: TRACE and VERBOSE methods, a scoped temporary level, foreign-level
// rescaling and bound fields. Obtain one with GetLogger.
type Adapter struct {
	logger *Logger
	fields []Field
}

// GetLogger returns an adapter over the named logger of the default
// hierarchy. The empty name is the root logger.
func GetLogger(name string) *Adapter { return defaultManager.GetLogger(name) }

// GetLogger returns an adapter over the named logger of m.
func (m *Manager) GetLogger(name string) *Adapter {
	return &Adapter{logger: m.Logger(name)}
}

// FromLogger wraps l, or its child called name when name is not empty.
// A nil l selects the named logger of the default hierarchy.
func FromLogger(l *Logger, name string) *Adapter {
	switch {
	case l == nil:
		return GetLogger(name)
	case name != "":
		return &Adapter{logger: l.Child(name)}
	default:
		return &Adapter{logger: l}
	}
}

// Logger exposes the wrapped hierarchical logger.
func (a *Adapter) Logger() *Logger { return a.logger }

func (a *Adapter) Name() string              { return a.logger.Name() }
func (a *Adapter) Level() Level              { return a.logger.Level() }
func (a *Adapter) EffectiveLevel() Level     { return a.logger.EffectiveLevel() }
func (a *Adapter) IsEnabledFor(l Level) bool { return a.logger.IsEnabledFor(l) }

func (a *Adapter) Handlers() []Handler     { return a.logger.Handlers() }
func (a *Adapter) AddHandler(h Handler)    { a.logger.AddHandler(h) }
func (a *Adapter) RemoveHandler(h Handler) { a.logger.RemoveHandler(h) }

// GetChild returns an adapter over the child logger called name. Bound
// fields are not inherited.
func (a *Adapter) GetChild(name string) *Adapter {
	return &Adapter{logger: a.logger.Child(name)}
}

// With returns a copy of a that attaches fs to every record.
func (a *Adapter) With(fs ...Field) *Adapter {
	return &Adapter{logger: a.logger, fields: joinFields(a.fields, fs)}
}

// SetLevel sets the logger level. Values above CRITICAL are taken to be on a
// foreign x1000 scale: a warning is logged and the value divided by 1000.
func (a *Adapter) SetLevel(level Level) {
	if level > LevelCritical {
		a.logf(1, LevelWarning,
			"Attempting to set level to %d -- looks like a foreign log level so scaling it accordingly.",
			[]any{int(level)})
		level /= 1000
	}
	a.logger.SetLevel(level)
}

// SetLevelName parses name (a level name or number) and applies SetLevel.
func (a *Adapter) SetLevelName(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	a.SetLevel(l)
	return nil
}

// PushLevel sets level and returns a func restoring the exact previous level.
//
//	defer log.PushLevel(logging.LevelDebug)()
func (a *Adapter) PushLevel(level Level) (restore func()) {
	old := a.logger.Level()
	a.SetLevel(level)
	return func() { a.logger.SetLevel(old) }
}

// TemporaryLogLevel runs fn with the logger at level. The previous level is
// restored when fn returns, fails or panics.
func (a *Adapter) TemporaryLogLevel(level Level, fn func() error) error {
	restore := a.PushLevel(level)
	defer restore()
	return fn()
}

// Log formats with fmt.Sprintf (only when args are given and the level is
// enabled) and emits at level.
func (a *Adapter) Log(level Level, format string, args ...any) {
	a.logf(1, level, format, args)
}

// Trace issues a TRACE message; TRACE is lower than DEBUG.
func (a *Adapter) Trace(format string, args ...any) { a.logf(1, LevelTrace, format, args) }

func (a *Adapter) Debug(format string, args ...any) { a.logf(1, LevelDebug, format, args) }

// Verbose issues a VERBOSE message; VERBOSE sits between DEBUG and INFO.
func (a *Adapter) Verbose(format string, args ...any) { a.logf(1, LevelVerbose, format, args) }

func (a *Adapter) Info(format string, args ...any)     { a.logf(1, LevelInfo, format, args) }
func (a *Adapter) Warning(format string, args ...any)  { a.logf(1, LevelWarning, format, args) }
func (a *Adapter) Error(format string, args ...any)    { a.logf(1, LevelError, format, args) }
func (a *Adapter) Critical(format string, args ...any) { a.logf(1, LevelCritical, format, args) }

// Fatal is Critical. It never exits the process.
func (a *Adapter) Fatal(format string, args ...any) { a.logf(1, LevelCritical, format, args) }

// At starts a fluent event at level.
func (a *Adapter) At(level Level) *Event { return getEvent(a, level) }

// logf is the single emission path. skip is the number of frames between
// logf and the user code (1 for the exported methods).
func (a *Adapter) logf(skip int, level Level, format string, args []any) {
	if !a.logger.IsEnabledFor(level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	a.logger.emit(level, msg, callerAt(skip+1), a.fields)
}

// callerAt resolves the frame skip levels above its caller.
func callerAt(skip int) Caller {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Caller{}
	}
	c := Caller{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		c.Function = fn.Name()
	}
	return c
}
