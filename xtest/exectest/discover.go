// Package exectest runs the executables found next to a test file and fails
// on a nonzero exit status.
//
//	func TestExecutables(t *testing.T) {
//		exes, err := exectest.Discover("exectest_test.go")
//		require.NoError(t, err)
//		exes.Run(t)
//	}
package exectest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExclude skips Python sources and shared libraries, which are often
// executable without being runnable tests.
var DefaultExclude = []string{"**/*.py", "**/*.so"}

// Executable is one program to run, with optional arguments.
type Executable struct {
	Path string   `yaml:"path"`
	Args []string `yaml:"args,omitempty"`
}

// Executables is the table of programs Run iterates.
type Executables struct {
	RootDir string
	List    []Executable

	discovered int
	done       bool
}

// Discovered is the number of executables found, or -1 before discovery.
func (e *Executables) Discovered() int {
	if e == nil || !e.done {
		return -1
	}
	return e.discovered
}

// Check returns ErrNoneDiscovered when discovery ran and found nothing.
func (e *Executables) Check() error {
	if e.Discovered() == 0 {
		return ErrNoneDiscovered
	}
	return nil
}

type discoverOptions struct {
	exclude []string
}

type Option func(*discoverOptions)

// Exclude replaces DefaultExclude. Patterns are doublestar patterns matched
// against slash-separated paths relative to the search directory.
func Exclude(patterns ...string) Option {
	return func(o *discoverOptions) { o.exclude = slices.Clone(patterns) }
}

// AddExclude appends to the exclude patterns.
func AddExclude(patterns ...string) Option {
	return func(o *discoverOptions) { o.exclude = append(o.exclude, patterns...) }
}

// Discover walks the directory containing refPath and collects every regular
// file with an execute bit that no exclude pattern matches.
func Discover(refPath string, opts ...Option) (*Executables, error) {
	o := discoverOptions{exclude: slices.Clone(DefaultExclude)}
	for _, opt := range opts {
		opt(&o)
	}
	for _, p := range o.exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	root, err := filepath.Abs(filepath.Dir(refPath))
	if err != nil {
		return nil, fmt.Errorf("exectest: %w", err)
	}

	var found []Executable
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if excluded(filepath.ToSlash(rel), o.exclude) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().Perm()&0o111 != 0 {
			found = append(found, Executable{Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("exectest: discover %s: %w", root, err)
	}
	log.Verbose("Discovered %d executables under %s", len(found), root)
	return &Executables{RootDir: root, List: found, discovered: len(found), done: true}, nil
}

// FromList builds the table from an explicit list. Relative paths are taken
// from the directory containing refPath; entries that do not exist make their
// test skip rather than fail.
func FromList(refPath string, exes ...string) (*Executables, error) {
	root, err := filepath.Abs(filepath.Dir(refPath))
	if err != nil {
		return nil, fmt.Errorf("exectest: %w", err)
	}
	list := make([]Executable, len(exes))
	for i, p := range exes {
		list[i] = Executable{Path: resolve(root, p)}
	}
	return &Executables{RootDir: root, List: list, discovered: len(list), done: true}, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
