// Package xtest bundles the test helpers of xutil behind one import: float
// assertions, executable smoke tests, scratch file paths and leak checks run
// after the package tests.
//
//	func TestMain(m *testing.M) { xtest.Run(m, true) }
//
//	func TestImage(t *testing.T) {
//		tc := xtest.New(t)
//		tc.AssertFloatsAlmostEqual(got, want, floats.Rtol(1e-6))
//		path := tc.TempFilePath(".png")
//		...
//	}
package xtest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	zerologadapter "github.com/trickstertwo/xutil/adapter/zerolog"
	"github.com/trickstertwo/xutil/logging"
	"github.com/trickstertwo/xutil/xtest/exectest"
	"github.com/trickstertwo/xutil/xtest/floats"
	"github.com/trickstertwo/xutil/xtest/leak"
	"github.com/trickstertwo/xutil/xtest/tempfile"
)

// TestCase adds the xutil assertions to a testing.TB.
type TestCase struct {
	testing.TB
}

func New(t testing.TB) TestCase { return TestCase{TB: t} }

func (tc TestCase) AssertFloatsAlmostEqual(lhs, rhs any, opts ...floats.Option) bool {
	tc.Helper()
	return floats.AlmostEqual(tc.TB, lhs, rhs, opts...)
}

func (tc TestCase) AssertFloatsEqual(lhs, rhs any, opts ...floats.Option) bool {
	tc.Helper()
	return floats.Equal(tc.TB, lhs, rhs, opts...)
}

func (tc TestCase) AssertFloatsNotEqual(lhs, rhs any, opts ...floats.Option) bool {
	tc.Helper()
	return floats.NotEqual(tc.TB, lhs, rhs, opts...)
}

// Deprecated: use AssertFloatsAlmostEqual.
func (tc TestCase) AssertClose(lhs, rhs any, opts ...floats.Option) bool {
	tc.Helper()
	return floats.Close(tc.TB, lhs, rhs, opts...)
}

// Deprecated: use AssertFloatsNotEqual.
func (tc TestCase) AssertNotClose(lhs, rhs any, opts ...floats.Option) bool {
	tc.Helper()
	return floats.NotClose(tc.TB, lhs, rhs, opts...)
}

func (tc TestCase) AssertExecutable(exe string, opts ...exectest.AssertOption) bool {
	tc.Helper()
	return exectest.AssertExecutable(tc.TB, exe, opts...)
}

// TempFilePath is tempfile.Path named after the file calling it.
func (tc TestCase) TempFilePath(ext string) string {
	tc.Helper()
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		file = "unknown"
	}
	return tempfile.PathAt(tc.TB, file, ext)
}

// Init sets the test log up (root at INFO, "LEVEL name: message" lines on
// stderr) and returns a leak session whose baseline is now.
func Init(opts ...leak.Option) *leak.Session {
	zerologadapter.Use(zerologadapter.Config{
		Writer:  os.Stderr,
		Level:   logging.LevelInfo,
		Console: true,
	})
	return leak.NewSession(opts...)
}

// Run calls Init, runs the package tests and then the leak checks. With exit
// it ends the process with the resulting code; otherwise it returns it.
func Run(m *testing.M, exit bool, opts ...leak.Option) int {
	code := leak.RunMain(m, Init(opts...))
	if exit {
		os.Exit(code)
	}
	return code
}

// FindFileFromRoot finds a file given relative to a project's top directory
// from anywhere below it: "a/b/c" is tried as given, then as "c", "b/c" and
// "a/b/c" from the working directory.
func FindFileFromRoot(path string) (string, error) {
	if isFile(path) {
		return path, nil
	}
	suffix := ""
	for file := filepath.Clean(path); file != "" && file != "." && file != string(filepath.Separator); {
		dir, base := filepath.Split(file)
		suffix = filepath.Join(base, suffix)
		if isFile(suffix) {
			return suffix, nil
		}
		file = filepath.Clean(dir)
		if file == "." {
			break
		}
	}
	return "", fmt.Errorf("xtest: can't find %s: %w", path, fs.ErrNotExist)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
