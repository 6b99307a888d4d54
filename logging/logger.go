package logging

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/trickstertwo/xclock"
)

// Logger is one node of a dotted-name hierarchy. Its level may be NOTSET, in
// which case the effective level is inherited from the nearest ancestor.
type Logger struct {
	name    string
	parent  *Logger
	manager *Manager

	level     atomic.Int64
	propagate atomic.Bool

	// Lock-free reads via atomic.Value; synchronized updates via mu.
	// Stored slices MUST be treated as immutable by readers.
	handlers  atomic.Value // holds []Handler
	observers atomic.Value // holds []Observer
	mu        sync.Mutex
}

// Manager owns a logger hierarchy rooted at a single root logger.
type Manager struct {
	mu      sync.Mutex
	root    *Logger
	loggers map[string]*Logger
}

// NewManager creates an independent hierarchy whose root level is WARNING.
func NewManager() *Manager {
	m := &Manager{loggers: make(map[string]*Logger)}
	m.root = m.newLogger("root", nil)
	m.root.level.Store(int64(LevelWarning))
	return m
}

var defaultManager = NewManager()

// DefaultManager returns the process-wide hierarchy used by GetLogger.
func DefaultManager() *Manager { return defaultManager }

func (m *Manager) newLogger(name string, parent *Logger) *Logger {
	l := &Logger{name: name, parent: parent, manager: m}
	l.propagate.Store(true)
	l.handlers.Store(([]Handler)(nil))
	l.observers.Store(([]Observer)(nil))
	return l
}

// Root returns the root logger.
func (m *Manager) Root() *Logger { return m.root }

// Logger returns the logger called name, creating it and any missing
// ancestors. The empty name is the root logger.
func (m *Manager) Logger(name string) *Logger {
	if name == "" {
		return m.root
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggerLocked(name)
}

func (m *Manager) loggerLocked(name string) *Logger {
	if l, ok := m.loggers[name]; ok {
		return l
	}
	parent := m.root
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		parent = m.loggerLocked(name[:i])
	}
	l := m.newLogger(name, parent)
	m.loggers[name] = l
	return l
}

// Names lists every non-root logger created so far.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.loggers))
	for n := range m.loggers {
		out = append(out, n)
	}
	return out
}

func (l *Logger) Name() string    { return l.name }
func (l *Logger) Parent() *Logger { return l.parent }

// Level returns the logger's own level, possibly NOTSET.
func (l *Logger) Level() Level { return Level(l.level.Load()) }

// SetLevel stores level and notifies observers.
func (l *Logger) SetLevel(level Level) {
	old := Level(l.level.Swap(int64(level)))
	for _, o := range l.snapshotObservers() {
		o.OnConfig(ConfigChange{Logger: l.name, OldLevel: old, NewLevel: level})
	}
}

// EffectiveLevel walks up the hierarchy to the first level that is set.
func (l *Logger) EffectiveLevel() Level {
	for c := l; c != nil; c = c.parent {
		if lv := c.Level(); lv != LevelNotSet {
			return lv
		}
	}
	return LevelNotSet
}

// IsEnabledFor reports whether a record at level would be emitted.
// Use to avoid formatting in hot paths when disabled.
func (l *Logger) IsEnabledFor(level Level) bool {
	return level >= l.EffectiveLevel()
}

// Child returns the logger named "<l.Name>.<suffix>".
func (l *Logger) Child(suffix string) *Logger {
	if l == l.manager.root {
		return l.manager.Logger(suffix)
	}
	return l.manager.Logger(l.name + "." + suffix)
}

func (l *Logger) Propagate() bool     { return l.propagate.Load() }
func (l *Logger) SetPropagate(p bool) { l.propagate.Store(p) }

func (l *Logger) Handlers() []Handler { return l.snapshotHandlers() }

func (l *Logger) AddHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.snapshotHandlers()
	for _, e := range cur {
		if sameHandler(e, h) {
			return
		}
	}
	l.handlers.Store(append(cur, h))
}

func (l *Logger) RemoveHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.snapshotHandlers()
	out := cur[:0:0]
	for _, e := range cur {
		if !sameHandler(e, h) {
			out = append(out, e)
		}
	}
	l.handlers.Store(out)
}

// ClearHandlers detaches every handler of l.
func (l *Logger) ClearHandlers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers.Store(([]Handler)(nil))
}

func (l *Logger) AddObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers.Store(append(l.snapshotObservers(), o))
}

func (l *Logger) snapshotHandlers() []Handler {
	cur, _ := l.handlers.Load().([]Handler)
	if len(cur) == 0 {
		return nil
	}
	out := make([]Handler, len(cur))
	copy(out, cur)
	return out
}

func (l *Logger) snapshotObservers() []Observer {
	cur, _ := l.observers.Load().([]Observer)
	if len(cur) == 0 {
		return nil
	}
	out := make([]Observer, len(cur))
	copy(out, cur)
	return out
}

// Log emits msg at level without caller information.
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.emit(level, msg, Caller{}, fields)
}

func (l *Logger) emit(level Level, msg string, caller Caller, fields []Field) {
	// Single authoritative timestamp from xclock
	r := Record{
		At:         xclock.Now(),
		Level:      level,
		LoggerName: l.name,
		Message:    msg,
		Caller:     caller,
		Fields:     fields,
	}
	l.handle(r)
}

// handle delivers r to the handlers of l and its ancestors while propagation
// is enabled; with no handler anywhere the last-resort handler is used.
func (l *Logger) handle(r Record) {
	found := false
	for c := l; c != nil; c = c.parent {
		hs, _ := c.handlers.Load().([]Handler)
		for _, h := range hs {
			found = true
			if f, ok := h.(levelFilter); ok && !f.Enabled(r.Level) {
				continue
			}
			h.Handle(r)
		}
		if !c.propagate.Load() {
			break
		}
	}
	if !found {
		lastResort(r)
	}
}

// sameHandler compares handlers by identity: pointers by address, other
// comparable values with ==. Functions and non-comparable values never match.
func sameHandler(a, b Handler) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() || va.Kind() == reflect.Func {
		return false
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
