// Package leak detects objects and open files that outlive the tests of a
// package.
//
// A Session stores a baseline: the next census id and the set of open files.
// CheckObjects fails when tracked blocks allocated since the baseline are
// still alive; CheckFileDescriptors fails when files were opened and not
// closed. Both are meant to run after every other test, which RunMain
// arranges from TestMain:
//
//	var session = leak.NewSession()
//
//	func TestMain(m *testing.M) { os.Exit(leak.RunMain(m, session)) }
package leak

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/trickstertwo/xutil/logging"
)

var log = logging.GetLogger("xutil.xtest.leak")

// DefaultMaxPrint caps the number of leaked blocks listed.
const DefaultMaxPrint = 20

// T is the part of testing.TB the checks need.
type T interface {
	Helper()
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	Skipf(format string, args ...any)
}

type Option func(*Session)

// WithCensus replaces DefaultRegistry. A nil census disables the object check.
func WithCensus(c Census) Option { return func(s *Session) { s.census = c } }

// WithFileLister replaces ProcessFiles. A nil lister skips the file check.
func WithFileLister(l FileLister) Option { return func(s *Session) { s.files = l } }

// WithIgnore replaces the ignore patterns, DefaultIgnore included.
func WithIgnore(patterns ...string) Option {
	return func(s *Session) { s.ignore = slices.Clone(patterns) }
}

// AddIgnore appends to the ignore patterns.
func AddIgnore(patterns ...string) Option {
	return func(s *Session) { s.ignore = append(s.ignore, patterns...) }
}

// WithMaxPrint caps the leaked block listing; n <= 0 lists everything.
func WithMaxPrint(n int) Option { return func(s *Session) { s.maxPrint = n } }

// WithConfig applies a loaded Config.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.ignore = append(s.ignore, cfg.Ignore...)
		if cfg.MaxPrint != 0 {
			s.maxPrint = cfg.MaxPrint
		}
	}
}

// WithSettle bounds how long CheckObjects waits for the garbage collector to
// release blocks tracked with TrackGC.
func WithSettle(d time.Duration) Option { return func(s *Session) { s.settle = d } }

// Session is the leak baseline shared by the checks of one test binary.
// Tests are assumed to run sequentially relative to the checks.
type Session struct {
	census   Census
	files    FileLister
	ignore   []string
	maxPrint int
	settle   time.Duration

	mu        sync.Mutex
	memID0    uint64
	openFiles map[string]struct{}
	filesErr  error
}

// NewSession builds a session and records the baseline.
func NewSession(opts ...Option) *Session {
	s := &Session{
		census:   DefaultRegistry,
		files:    ProcessFiles{},
		ignore:   slices.Clone(DefaultIgnore),
		maxPrint: DefaultMaxPrint,
		settle:   time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	s.Reset()
	return s
}

// Reset moves the baseline to now.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.census != nil {
		s.memID0 = s.census.NextID()
	}
	s.openFiles, s.filesErr = nil, nil
	if s.files == nil {
		return
	}
	s.openFiles, s.filesErr = openSet(s.files, s.ignore)
	log.Verbose("Leak baseline at id %d, %d open files", s.memID0, len(s.openFiles))
}

// CheckObjects collects garbage and fails t if blocks allocated since the
// baseline are still alive. At most MaxPrint blocks are listed, the newest.
func (s *Session) CheckObjects(t T) {
	t.Helper()
	if s.census == nil {
		return
	}
	s.mu.Lock()
	since := s.memID0
	s.mu.Unlock()

	blocks := s.collect(since)
	n := len(blocks)
	if n == 0 {
		return
	}
	t.Logf("%d Object%s leaked:", n, plural(n))
	if s.maxPrint > 0 && n > s.maxPrint {
		t.Logf("...")
		blocks = blocks[n-s.maxPrint:]
	}
	for _, b := range blocks {
		t.Logf("%s", b)
	}
	t.Errorf("Leaked %d block%s", n, plural(n))
}

// collect runs the collector until the census is empty or the settle time is
// spent. Cleanups registered by TrackGC run asynchronously after a cycle.
func (s *Session) collect(since uint64) []Block {
	deadline := time.Now().Add(s.settle)
	for {
		runtime.GC()
		blocks := s.census.Census(since)
		if len(blocks) == 0 || !time.Now().Before(deadline) {
			return blocks
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// CheckFileDescriptors fails t if files not open at the baseline are open
// now. It skips when the lister is missing or cannot inspect the process.
func (s *Session) CheckFileDescriptors(t T) {
	t.Helper()
	if s.files == nil {
		t.Skipf("Unable to test file descriptor leaks. No file lister configured.")
		return
	}
	s.mu.Lock()
	before, err := s.openFiles, s.filesErr
	s.mu.Unlock()
	if err != nil {
		t.Skipf("Unable to test file descriptor leaks. %v", err)
		return
	}
	now, err := openSet(s.files, s.ignore)
	if err != nil {
		t.Skipf("Unable to test file descriptor leaks. %v", err)
		return
	}
	diff := grown(before, now)
	for _, p := range diff {
		t.Logf("File open: %s", p)
	}
	if len(diff) != 0 {
		t.Errorf("Failed to close %d file%s", len(diff), plural(len(diff)))
	}
}

// Run runs both checks as subtests of t and then resets the baseline.
func (s *Session) Run(t *testing.T) {
	t.Run("Leaks", func(t *testing.T) { s.CheckObjects(t) })
	t.Run("FileDescriptorLeaks", func(t *testing.T) { s.CheckFileDescriptors(t) })
	s.Reset()
}

// RunMain runs the package tests and then, if they passed, the leak checks.
// It returns the exit code for os.Exit.
func RunMain(m *testing.M, s *Session) int {
	code := m.Run()
	if code != 0 || s == nil {
		return code
	}
	if !s.Check(os.Stderr) {
		return 1
	}
	return 0
}

// Check runs both checks outside a test, reporting to w in the layout of
// go test -v. It reports whether no leak was found.
func (s *Session) Check(w io.Writer) bool {
	ok := true
	for _, c := range []struct {
		name string
		fn   func(T)
	}{
		{"Leaks", s.CheckObjects},
		{"FileDescriptorLeaks", s.CheckFileDescriptors},
	} {
		r := &reporter{w: w, name: c.name}
		c.fn(r)
		r.flush()
		ok = ok && !r.failed
	}
	s.Reset()
	return ok
}

type reporter struct {
	w       io.Writer
	name    string
	lines   []string
	failed  bool
	skipped bool
}

func (r *reporter) Helper() {}

func (r *reporter) Logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *reporter) Errorf(format string, args ...any) {
	r.failed = true
	r.Logf(format, args...)
}

func (r *reporter) Skipf(format string, args ...any) {
	r.skipped = true
	r.Logf(format, args...)
}

func (r *reporter) flush() {
	status := "PASS"
	switch {
	case r.failed:
		status = "FAIL"
	case r.skipped:
		status = "SKIP"
	}
	if status == "PASS" {
		return
	}
	fmt.Fprintf(r.w, "--- %s: %s\n", status, r.name)
	for _, l := range r.lines {
		fmt.Fprintf(r.w, "    %s\n", l)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
