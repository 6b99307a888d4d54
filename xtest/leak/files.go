package leak

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/shirou/gopsutil/v4/process"
)

// DefaultIgnore lists files that stay open for reasons outside the code
// under test: font and asset catalogs kept by system libraries, and the sssd
// passwd cache.
var DefaultIgnore = []string{
	"/**/*.car",
	"/**/*.ttf",
	"/var/lib/sss/mc/passwd",
}

// FileLister reports the paths of the files a process holds open.
type FileLister interface {
	OpenFiles() ([]string, error)
}

// FileListerFunc adapts a function to FileLister.
type FileListerFunc func() ([]string, error)

func (f FileListerFunc) OpenFiles() ([]string, error) { return f() }

// ProcessFiles lists regular files through gopsutil. A zero PID means the
// current process. Sockets, pipes and anonymous descriptors are left out.
type ProcessFiles struct {
	PID int32
}

func (p ProcessFiles) OpenFiles() ([]string, error) {
	pid := p.PID
	if pid == 0 {
		pid = int32(os.Getpid())
	}
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	stats, err := proc.OpenFiles()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	paths := make([]string, 0, len(stats))
	for _, st := range stats {
		if strings.HasPrefix(st.Path, "/") {
			paths = append(paths, st.Path)
		}
	}
	return paths, nil
}

// ValidatePatterns checks every pattern with doublestar.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

func ignored(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

// openSet lists the open files not matched by ignore, as a set.
func openSet(l FileLister, ignore []string) (map[string]struct{}, error) {
	paths, err := l.OpenFiles()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if !ignored(p, ignore) {
			set[p] = struct{}{}
		}
	}
	return set, nil
}

// grown returns the members of now missing from before, sorted.
func grown(before, now map[string]struct{}) []string {
	var out []string
	for p := range now {
		if _, ok := before[p]; !ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
