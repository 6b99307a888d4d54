// Package tempfile names scratch files after the test that writes them and
// removes them once the test passed. A failing test leaves its file behind
// for inspection.
package tempfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/trickstertwo/xutil/logging"
)

var log = logging.GetLogger("xutil.xtest.tempfile")

// OutputDir is the directory next to the calling file that receives scratch
// files when it exists.
const OutputDir = ".tests"

// T is the part of testing.TB Path needs.
type T interface {
	Helper()
	Name() string
	Failed() bool
	Cleanup(func())
}

// Path returns "<file>_<test><ext>" where file is the calling source file
// without its extension and test the top-level test name. The path is in the
// .tests directory next to the calling file when that exists, otherwise in
// the working directory. The file is removed when t finishes without failure.
func Path(t T, ext string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		file = "unknown"
	}
	return PathAt(t, file, ext)
}

// PathAt is Path with the reference source file given explicitly.
func PathAt(t T, refFile, ext string) string {
	t.Helper()
	path := Name(refFile, topLevel(t.Name()), ext)
	t.Cleanup(func() {
		if t.Failed() {
			log.Info("Leaving %s for inspection", path)
			return
		}
		remove(path)
	})
	return path
}

// Name builds the scratch path for refFile and a function or test name.
func Name(refFile, funcName, ext string) string {
	dir, base := filepath.Split(refFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, OutputDir)
	if fi, err := os.Stat(out); err != nil || !fi.IsDir() {
		out = ""
	}
	return filepath.Join(out, base+"_"+funcName+ext)
}

// With calls fn with path and removes the file when fn returns nil. On error
// the file is left in place and the error returned.
func With(path string, fn func(path string) error) error {
	if err := fn(path); err != nil {
		return err
	}
	remove(path)
	return nil
}

func remove(path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		log.Warning("Temporary file %s was never created", path)
	default:
		log.Warning("Could not remove file %q: %v", path, err)
	}
}

func topLevel(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[:i]
	}
	return name
}
