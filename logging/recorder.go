package logging

import (
	"strings"
	"sync"
)

// Recorder is a Handler that keeps every record it receives. Tests attach it
// to a logger to assert on emitted output.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Handle(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.Fields = append([]Field(nil), rec.Fields...)
	r.records = append(r.records, rec)
}

// Records returns a copy of the captured records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Messages returns the captured messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Message
	}
	return out
}

// Contains reports whether any record at level has a message containing sub.
func (r *Recorder) Contains(level Level, sub string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Level == level && strings.Contains(rec.Message, sub) {
			return true
		}
	}
	return false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
