package logging

import (
	"fmt"
	"sync"
	"time"
)

// Event is a fluent builder (Builder pattern) for a single structured record.
// API: log.At(logging.LevelVerbose).Str("visit", id).Int("ccd", 42).Msg("processing")
type Event struct {
	a      *Adapter
	level  Level
	fields []Field
}

var eventPool = sync.Pool{
	New: func() any { return &Event{fields: make([]Field, 0, 8)} },
}

func getEvent(a *Adapter, level Level) *Event {
	ev := eventPool.Get().(*Event)
	ev.a = a
	ev.level = level
	ev.fields = ev.fields[:0]
	return ev
}

func (e *Event) putBack() {
	// allow GC of large backing arrays by capping
	if cap(e.fields) > 128 {
		e.fields = make([]Field, 0, 8)
	}
	e.a = nil
	e.level = LevelNotSet
	eventPool.Put(e)
}

// Enabled reports whether Msg would emit anything; callers can skip building
// expensive fields when it is false.
func (e *Event) Enabled() bool { return e.a.logger.IsEnabledFor(e.level) }

func (e *Event) Str(k, v string) *Event             { return e.add(k, v) }
func (e *Event) Int(k string, v int) *Event         { return e.add(k, int64(v)) }
func (e *Event) Int64(k string, v int64) *Event     { return e.add(k, v) }
func (e *Event) Uint64(k string, v uint64) *Event   { return e.add(k, v) }
func (e *Event) Float64(k string, v float64) *Event { return e.add(k, v) }
func (e *Event) Bool(k string, v bool) *Event       { return e.add(k, v) }
func (e *Event) Dur(k string, v time.Duration) *Event {
	return e.add(k, v)
}
func (e *Event) Time(k string, v time.Time) *Event { return e.add(k, v) }
func (e *Event) Any(k string, v any) *Event        { return e.add(k, v) }

func (e *Event) Err(err error) *Event {
	if err == nil {
		return e
	}
	return e.add("error", err)
}

func (e *Event) add(k string, v any) *Event {
	e.fields = append(e.fields, Field{Key: k, Value: v})
	return e
}

// Msg terminates the builder and emits the event.
func (e *Event) Msg(msg string) {
	if e.Enabled() {
		fs := joinFields(e.a.fields, e.fields)
		// The pooled slice is reused; handlers may keep the record.
		fs = append([]Field(nil), fs...)
		e.a.logger.emit(e.level, msg, callerAt(1), fs)
	}
	e.putBack()
}

// Msgf is Msg with fmt.Sprintf formatting.
func (e *Event) Msgf(format string, args ...any) {
	if e.Enabled() {
		fs := append([]Field(nil), joinFields(e.a.fields, e.fields)...)
		e.a.logger.emit(e.level, fmt.Sprintf(format, args...), callerAt(1), fs)
	}
	e.putBack()
}
