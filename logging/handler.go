package logging

import (
	"strconv"
	"time"
)

// Handler is the output Strategy attached to loggers (zap, zerolog, slog, ...).
// Handle receives the single authoritative timestamp in r.At, taken once by
// the emitting Logger from xclock.
type Handler interface {
	Handle(r Record)
}

// HandlerFunc adapts a function to Handler. Functions have no identity, so
// a HandlerFunc is never deduplicated by AddHandler and cannot be removed
// with RemoveHandler; use NewFuncHandler for a removable one.
type HandlerFunc func(Record)

func (f HandlerFunc) Handle(r Record) { f(r) }

// FuncHandler is a function handler with pointer identity.
type FuncHandler struct {
	f func(Record)
}

func NewFuncHandler(f func(Record)) *FuncHandler { return &FuncHandler{f: f} }

func (h *FuncHandler) Handle(r Record) { h.f(r) }

// Record is one emitted log entry.
type Record struct {
	At         time.Time
	Level      Level
	LoggerName string
	Message    string
	Caller     Caller
	Fields     []Field
}

// Caller identifies the user code that issued a record. The zero value means
// the caller was not captured.
type Caller struct {
	File     string
	Line     int
	Function string
}

func (c Caller) Defined() bool { return c.File != "" }

func (c Caller) String() string {
	if !c.Defined() {
		return ""
	}
	return c.File + ":" + strconv.Itoa(c.Line)
}

// levelFilter is an optional interface a Handler can implement to drop records
// below its own threshold before formatting.
type levelFilter interface {
	Enabled(Level) bool
}

// LeveledHandler wraps h so it only sees records at or above Min. Attach it
// as a pointer when it must be removed later and the wrapped handler is not
// comparable.
type LeveledHandler struct {
	Handler
	Min Level
}

func (h LeveledHandler) Enabled(l Level) bool { return l >= h.Min }

func (h LeveledHandler) Handle(r Record) {
	if r.Level < h.Min {
		return
	}
	h.Handler.Handle(r)
}
