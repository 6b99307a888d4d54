package logging

import (
	"sync"
	"sync/atomic"
)

// Deprecation describes a call to a deprecated Adapter method.
type Deprecation struct {
	Method      string
	Replacement string
	Caller      Caller
}

func (d Deprecation) String() string {
	return d.Method + " is deprecated; use " + d.Replacement + " instead. It will be removed in a future release."
}

var (
	deprecationHandler atomic.Pointer[func(Deprecation)]
	deprecationSeen    sync.Map
)

// SetDeprecationHandler routes deprecation signals to f and returns a func
// restoring the previous handler. With no handler set, the first call of each
// deprecated method logs one WARNING on the "xutil.deprecated" logger.
func SetDeprecationHandler(f func(Deprecation)) (restore func()) {
	var next *func(Deprecation)
	if f != nil {
		next = &f
	}
	prev := deprecationHandler.Swap(next)
	return func() { deprecationHandler.Store(prev) }
}

func (a *Adapter) deprecated(method, replacement string) {
	d := Deprecation{Method: method, Replacement: replacement, Caller: callerAt(2)}
	if f := deprecationHandler.Load(); f != nil {
		(*f)(d)
		return
	}
	if _, dup := deprecationSeen.LoadOrStore(method, struct{}{}); dup {
		return
	}
	l := a.logger.manager.Logger("xutil.deprecated")
	if l.IsEnabledFor(LevelWarning) {
		l.emit(LevelWarning, d.String(), d.Caller, nil)
	}
}

// IsDebugEnabled reports whether DEBUG records are emitted.
//
// Deprecated: use IsEnabledFor(LevelDebug).
func (a *Adapter) IsDebugEnabled() bool {
	a.deprecated("IsDebugEnabled", "IsEnabledFor(LevelDebug)")
	return a.IsEnabledFor(LevelDebug)
}

// Deprecated: use Name.
func (a *Adapter) GetName() string {
	a.deprecated("GetName", "Name")
	return a.Name()
}

// Deprecated: use Level.
func (a *Adapter) GetLevel() Level {
	a.deprecated("GetLevel", "Level")
	return a.Level()
}

// Tracef logs at TRACE with brace formatting ("{}", "{0}", "{:.2f}").
//
// Deprecated: use Trace.
func (a *Adapter) Tracef(format string, args ...any) {
	a.deprecated("Tracef", "Trace")
	a.bracef(LevelTrace, format, args)
}

// Deprecated: use Debug.
func (a *Adapter) Debugf(format string, args ...any) {
	a.deprecated("Debugf", "Debug")
	a.bracef(LevelDebug, format, args)
}

// Deprecated: use Info.
func (a *Adapter) Infof(format string, args ...any) {
	a.deprecated("Infof", "Info")
	a.bracef(LevelInfo, format, args)
}

// Deprecated: use Warning.
func (a *Adapter) Warnf(format string, args ...any) {
	a.deprecated("Warnf", "Warning")
	a.bracef(LevelWarning, format, args)
}

// Deprecated: use Error.
func (a *Adapter) Errorf(format string, args ...any) {
	a.deprecated("Errorf", "Error")
	a.bracef(LevelError, format, args)
}

// Deprecated: use Critical.
func (a *Adapter) Fatalf(format string, args ...any) {
	a.deprecated("Fatalf", "Critical")
	a.bracef(LevelCritical, format, args)
}

// bracef is only called directly from the exported *f methods, so the user
// frame is two levels up.
func (a *Adapter) bracef(level Level, format string, args []any) {
	if !a.logger.IsEnabledFor(level) {
		return
	}
	a.logger.emit(level, formatBraces(format, args), callerAt(2), a.fields)
}
