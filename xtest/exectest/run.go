package exectest

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/trickstertwo/xutil/logging"
)

var log = logging.GetLogger("xutil.xtest.exectest")

// T is the part of testing.TB AssertExecutable needs.
type T interface {
	Helper()
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	Skipf(format string, args ...any)
}

type assertOptions struct {
	rootDir string
	args    []string
	hasArgs bool
	msg     string
}

type AssertOption func(*assertOptions)

// RootDir is the directory a relative executable path is taken from.
func RootDir(dir string) AssertOption { return func(o *assertOptions) { o.rootDir = dir } }

// Args are passed to the executable.
func Args(args ...string) AssertOption {
	return func(o *assertOptions) { o.args, o.hasArgs = args, true }
}

// Msg replaces the failure message.
func Msg(msg string) AssertOption { return func(o *assertOptions) { o.msg = msg } }

// AssertExecutable runs exe and waits for it. The output is logged to t. A
// missing executable skips t; a nonzero exit status fails it. No timeout is
// applied.
func AssertExecutable(t T, exe string, opts ...AssertOption) bool {
	t.Helper()
	var o assertOptions
	for _, opt := range opts {
		opt(&o)
	}
	exe = resolve(o.rootDir, exe)

	argstr := "no arguments"
	if o.hasArgs {
		argstr = `arguments "` + strings.Join(o.args, " ") + `"`
	}
	t.Logf("Running executable '%s' with %s...", exe, argstr)
	if !exists(exe) {
		t.Skipf("Executable %s is unexpectedly missing", exe)
		return false
	}

	out, err := exec.Command(exe, o.args...).CombinedOutput()
	if len(out) > 0 {
		t.Logf("%s", out)
	}
	if err == nil {
		return true
	}

	failmsg := "Unable to run '" + exe + "': " + err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Verbose("Executable %s exited with status %d", exe, exitErr.ExitCode())
		failmsg = "Bad exit status from '" + exe + "': " + strconv.Itoa(exitErr.ExitCode())
	}
	if o.msg != "" {
		failmsg = o.msg
	}
	t.Errorf("%s", failmsg)
	return false
}

// Runner is the part of *testing.T that Run needs.
type Runner interface {
	Helper()
	Fatal(args ...any)
	Run(name string, f func(t *testing.T)) bool
}

// Run runs every executable in its own subtest. It fails t at once when
// discovery found nothing. A nil table or one that never ran discovery has
// nothing to run.
func (e *Executables) Run(t Runner) {
	t.Helper()
	if e == nil {
		return
	}
	if err := e.Check(); err != nil {
		t.Fatal("No executables discovered.")
		return
	}
	for _, x := range e.List {
		t.Run(SubtestName(x.Path), func(t *testing.T) {
			opts := []AssertOption{RootDir(e.RootDir)}
			if x.Args != nil {
				opts = append(opts, Args(x.Args...))
			}
			AssertExecutable(t, x.Path, opts...)
		})
	}
}

// SubtestName is the subtest name for an executable path.
func SubtestName(path string) string {
	return "test_exe_" + strings.ReplaceAll(filepath.ToSlash(path), "/", "_")
}
