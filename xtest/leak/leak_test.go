package leak

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeT struct {
	logs    []string
	errors  []string
	skipped string
}

func (f *fakeT) Helper() {}

func (f *fakeT) Logf(format string, args ...any) { f.logs = append(f.logs, fmt.Sprintf(format, args...)) }

func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeT) Skipf(format string, args ...any) { f.skipped = fmt.Sprintf(format, args...) }

type files struct{ paths []string }

func (f *files) OpenFiles() ([]string, error) { return slices.Clone(f.paths), nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	release := r.Track("a")
	id := r.NextID()
	r.Track("b")
	r.Track("c")

	assert.Len(t, r.Census(0), 3)
	assert.Equal(t, []Block{{ID: 2, Description: "b"}, {ID: 3, Description: "c"}}, r.Census(id))

	release()
	release()
	assert.Len(t, r.Census(0), 2)
	assert.Equal(t, "2: b", r.Census(0)[0].String())
}

func TestCheckObjectsNoLeak(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Track("before the baseline")
	s := NewSession(WithCensus(r), WithFileLister(nil), WithSettle(0))

	release := r.Track("released")
	release()

	ft := &fakeT{}
	s.CheckObjects(ft)
	assert.Empty(t, ft.errors)
	assert.Empty(t, ft.logs)
}

func TestCheckObjectsListsNewest(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	s := NewSession(WithCensus(r), WithFileLister(nil), WithSettle(0), WithMaxPrint(2))
	for _, d := range []string{"a", "b", "c"} {
		r.Track(d)
	}

	ft := &fakeT{}
	s.CheckObjects(ft)
	assert.Equal(t, []string{"3 Objects leaked:", "...", "2: b", "3: c"}, ft.logs)
	assert.Equal(t, []string{"Leaked 3 blocks"}, ft.errors)

	s.Reset()
	r.Track("d")
	ft = &fakeT{}
	s.CheckObjects(ft)
	assert.Equal(t, []string{"1 Object leaked:", "4: d"}, ft.logs)
	assert.Equal(t, []string{"Leaked 1 block"}, ft.errors)
}

func TestTrackGC(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	s := NewSession(WithCensus(r), WithFileLister(nil), WithSettle(0))

	kept := new([64]byte)
	TrackGC(r, kept, "kept")
	ft := &fakeT{}
	s.CheckObjects(ft)
	assert.Equal(t, []string{"Leaked 1 block"}, ft.errors)
	runtime.KeepAlive(kept)

	s = NewSession(WithCensus(r), WithFileLister(nil), WithSettle(5*time.Second))
	func() {
		buf := new([64]byte)
		TrackGC(r, buf, "dropped")
	}()
	ft = &fakeT{}
	s.CheckObjects(ft)
	assert.Empty(t, ft.errors)
}

func TestCheckFileDescriptors(t *testing.T) {
	t.Parallel()

	l := &files{paths: []string{"/dev/null", "/tmp/base.log"}}
	s := NewSession(WithCensus(nil), WithFileLister(l))

	l.paths = append(l.paths,
		"/tmp/b.txt",
		"/tmp/a.txt",
		"/System/Library/Assets.car",
		"/usr/share/fonts/DejaVuSans.ttf",
		"/var/lib/sss/mc/passwd",
	)
	ft := &fakeT{}
	s.CheckFileDescriptors(ft)
	assert.Equal(t, []string{"File open: /tmp/a.txt", "File open: /tmp/b.txt"}, ft.logs)
	assert.Equal(t, []string{"Failed to close 2 files"}, ft.errors)

	l.paths = l.paths[:3]
	ft = &fakeT{}
	s.CheckFileDescriptors(ft)
	assert.Equal(t, []string{"Failed to close 1 file"}, ft.errors)

	s.Reset()
	ft = &fakeT{}
	s.CheckFileDescriptors(ft)
	assert.Empty(t, ft.errors)
}

func TestIgnoreOptions(t *testing.T) {
	t.Parallel()

	l := &files{}
	s := NewSession(WithCensus(nil), WithFileLister(l), WithIgnore("/tmp/**"), AddIgnore("/**/*.db"))
	l.paths = []string{"/tmp/x/y.log", "/home/u/cache.db", "/usr/share/fonts/a.ttf"}

	ft := &fakeT{}
	s.CheckFileDescriptors(ft)
	assert.Equal(t, []string{"File open: /usr/share/fonts/a.ttf"}, ft.logs, "WithIgnore drops the defaults")
}

func TestCheckFileDescriptorsSkips(t *testing.T) {
	t.Parallel()

	ft := &fakeT{}
	NewSession(WithCensus(nil), WithFileLister(nil)).CheckFileDescriptors(ft)
	assert.Contains(t, ft.skipped, "Unable to test file descriptor leaks.")

	broken := FileListerFunc(func() ([]string, error) { return nil, ErrUnavailable })
	ft = &fakeT{}
	NewSession(WithCensus(nil), WithFileLister(broken)).CheckFileDescriptors(ft)
	assert.Contains(t, ft.skipped, ErrUnavailable.Error())
	assert.Empty(t, ft.errors)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()

	before, err := ProcessFiles{}.OpenFiles()
	if errors.Is(err, ErrUnavailable) {
		t.Skipf("no process inspection here: %v", err)
	}
	require.NoError(t, err)

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	path := filepath.Join(dir, "held.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	after, err := ProcessFiles{}.OpenFiles()
	require.NoError(t, err)
	assert.NotContains(t, before, path)
	assert.Contains(t, after, path)
}

func TestRunPasses(t *testing.T) {
	r := NewRegistry()
	s := NewSession(WithCensus(r), WithFileLister(&files{paths: []string{"/dev/null"}}), WithSettle(0))
	s.Run(t)
}

func TestCheckReportsLikeGoTest(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	s := NewSession(WithCensus(r), WithFileLister(nil), WithSettle(0))
	r.Track("leaked")

	var buf bytes.Buffer
	assert.False(t, s.Check(&buf))
	assert.Contains(t, buf.String(), "--- FAIL: Leaks\n    1 Object leaked:\n    1: leaked\n    Leaked 1 block\n")
	assert.Contains(t, buf.String(), "--- SKIP: FileDescriptorLeaks\n")

	buf.Reset()
	assert.True(t, s.Check(&buf), "Check resets the baseline")
	assert.NotContains(t, buf.String(), "FAIL")
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte("ignore:\n  - \"/**/*.sqlite3\"\nmax_print: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{Ignore: []string{"/**/*.sqlite3"}, MaxPrint: 5}, cfg)

	l := &files{}
	s := NewSession(WithCensus(nil), WithFileLister(l), WithConfig(cfg))
	assert.Equal(t, 5, s.maxPrint)
	l.paths = []string{"/data/x.sqlite3", "/data/y.ttf"}
	ft := &fakeT{}
	s.CheckFileDescriptors(ft)
	assert.Empty(t, ft.errors, "config patterns extend the defaults")

	_, err = ParseConfig([]byte("ignore: [\"[unclosed\"]\n"))
	assert.ErrorIs(t, err, ErrBadPattern)

	path := filepath.Join(t.TempDir(), "leak.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_print: 3\n"), 0o600))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxPrint)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
