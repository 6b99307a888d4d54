package leak

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Block is a tracked object that is still alive.
type Block struct {
	ID          uint64
	Description string
}

func (b Block) String() string { return fmt.Sprintf("%d: %s", b.ID, b.Description) }

// Census hands out monotonically increasing ids and lists the live blocks
// allocated at or after a given id, oldest first.
type Census interface {
	NextID() uint64
	Census(since uint64) []Block
}

// Registry is an in-process Census. Objects are tracked explicitly with
// Track or tied to the garbage collector with TrackGC.
type Registry struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]Block
}

// DefaultRegistry is the census NewSession uses unless told otherwise.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{next: 1, live: make(map[uint64]Block)}
}

// Track records a live block and returns the function that releases it.
// Calling release more than once is harmless.
func (r *Registry) Track(desc string) (release func()) {
	id := r.add(desc)
	var once sync.Once
	return func() { once.Do(func() { r.release(id) }) }
}

// TrackGC records obj as a live block until the garbage collector reclaims
// it. obj must not be a tiny pointer-free allocation (under 16 bytes), those
// may share a block with other objects and never be reported collected.
func TrackGC[T any](r *Registry, obj *T, desc string) uint64 {
	id := r.add(desc)
	runtime.AddCleanup(obj, r.release, id)
	return id
}

func (r *Registry) add(desc string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.live[id] = Block{ID: id, Description: desc}
	return id
}

func (r *Registry) release(id uint64) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}

func (r *Registry) NextID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

func (r *Registry) Census(since uint64) []Block {
	r.mu.Lock()
	out := make([]Block, 0, len(r.live))
	for id, b := range r.live {
		if id >= since {
			out = append(out, b)
		}
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
