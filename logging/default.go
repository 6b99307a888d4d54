package logging

import (
	"bytes"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// defaultHandlerFactory is set by a backend package (e.g., adapter/zerolog)
// in its init() to avoid import cycles. BasicConfig and the last-resort path
// use it to build a handler.
var defaultHandlerFactory atomic.Pointer[func(io.Writer) Handler]

// RegisterDefaultHandlerFactory registers the constructor used by BasicConfig.
// Backends should call this from init():
//
//	func init() {
//	  logging.RegisterDefaultHandlerFactory(func(w io.Writer) logging.Handler {
//	    return zerologadapter.New(zerolog.New(w))
//	  })
//	}
func RegisterDefaultHandlerFactory(f func(io.Writer) Handler) {
	if f == nil {
		defaultHandlerFactory.Store(nil)
		return
	}
	defaultHandlerFactory.Store(&f)
}

// NewDefaultHandler builds a handler writing to w with the registered factory,
// falling back to a plain "LEVEL name: message" line writer.
func NewDefaultHandler(w io.Writer) Handler {
	if w == nil {
		w = os.Stderr
	}
	if f := defaultHandlerFactory.Load(); f != nil {
		return (*f)(w)
	}
	return NewStreamHandler(w)
}

// BasicConfig attaches a default handler writing to w to the root logger of
// the default hierarchy, unless the root already has handlers. It returns the
// root adapter for convenience.
func BasicConfig(w io.Writer, level Level) *Adapter {
	root := defaultManager.Root()
	if len(root.Handlers()) == 0 {
		root.AddHandler(NewDefaultHandler(w))
	}
	if level != LevelNotSet {
		root.SetLevel(level)
	}
	return &Adapter{logger: root}
}

var (
	lastResortOnce    sync.Once
	lastResortHandler Handler
)

// lastResort receives records that reached no handler: WARNING and above go
// to stderr.
func lastResort(r Record) {
	if r.Level < LevelWarning {
		return
	}
	lastResortOnce.Do(func() {
		lastResortHandler = NewDefaultHandler(os.Stderr)
	})
	lastResortHandler.Handle(r)
}

// StreamHandler writes one "LEVEL name: message" line per record, the
// conventional test-log layout. It is the fallback when no backend factory
// is registered.
type StreamHandler struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStreamHandler(w io.Writer) *StreamHandler {
	return &StreamHandler{w: w}
}

func (h *StreamHandler) Handle(r Record) {
	var b bytes.Buffer
	name := LevelName(r.Level)
	b.WriteString(name)
	for i := len(name); i < 5; i++ {
		b.WriteByte(' ')
	}
	b.WriteByte(' ')
	b.WriteString(r.LoggerName)
	b.WriteString(": ")
	b.WriteString(r.Message)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = h.w.Write(b.Bytes())
}
