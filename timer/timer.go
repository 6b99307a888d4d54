// Package timer records how long a block of code takes, in seconds, into a
// metadata sink. Timestamps come from xclock, so frozen clocks record zero.
package timer

import (
	"sync"

	"github.com/trickstertwo/xclock"

	"github.com/trickstertwo/xutil/logging"
)

var log = logging.GetLogger("xutil.timer")

var now = xclock.Now

// Metadata receives timing results. Add appends: a name may hold several
// values.
type Metadata interface {
	Add(name string, value any)
}

// MapMetadata is an in-memory Metadata, safe for concurrent use.
type MapMetadata struct {
	mu sync.Mutex
	m  map[string][]any
}

func NewMapMetadata() *MapMetadata { return &MapMetadata{m: make(map[string][]any)} }

func (md *MapMetadata) Add(name string, value any) {
	md.mu.Lock()
	defer md.mu.Unlock()
	if md.m == nil {
		md.m = make(map[string][]any)
	}
	md.m[name] = append(md.m[name], value)
}

// Get returns the values added under name, oldest first.
func (md *MapMetadata) Get(name string) []any {
	md.mu.Lock()
	defer md.mu.Unlock()
	return append([]any(nil), md.m[name]...)
}

// Names lists the names holding at least one value.
func (md *MapMetadata) Names() []string {
	md.mu.Lock()
	defer md.mu.Unlock()
	out := make([]string, 0, len(md.m))
	for k := range md.m {
		out = append(out, k)
	}
	return out
}

// Time runs fn and, when it returns nil, adds the elapsed seconds to md under
// name. The error of fn is returned unchanged and nothing is recorded.
func Time(md Metadata, name string, fn func() error) error {
	t1 := now()
	if err := fn(); err != nil {
		return err
	}
	d := now().Sub(t1).Seconds()
	md.Add(name, d)
	log.Trace("%s took %gs", name, d)
	return nil
}

// Method is Time recording under "<name>Duration", the convention for timing
// a task's run methods.
func Method(md Metadata, name string, fn func() error) error {
	return Time(md, name+"Duration", fn)
}
