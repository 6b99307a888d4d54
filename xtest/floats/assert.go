// Package floats provides floating-point almost-equal assertions for scalars
// and n-dimensional arrays, with a listing of the failing elements and an
// optional diagnostic plot.
//
// The rule is the one of Compare. The helpers accept testify's TestingT, so
// they work with *testing.T, testify suites and fakes alike:
//
//	floats.AlmostEqual(t, got, want, floats.Rtol(1e-6), floats.Atol(0))
package floats

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/stretchr/testify/assert"

	"github.com/trickstertwo/xutil/logging"
)

var log = logging.GetLogger("xutil.xtest.floats")

type tHelper interface{ Helper() }

type failNower interface{ FailNow() }

// AlmostEqual fails t unless every element of lhs and rhs is equal within the
// tolerances (DefaultTolerance for both unless set). Non-finite input always
// fails. Usage errors (no tolerance, shape mismatch, plotting a non 2-d
// operand) stop the test with FailNow when t supports it.
func AlmostEqual(t assert.TestingT, lhs, rhs any, opts ...Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	res, err := Compare(lhs, rhs, opts...)
	if errors.Is(err, ErrNonFinite) {
		return assert.Fail(t, err.Error())
	}
	if err != nil {
		return usageError(t, err)
	}
	if !res.Failed {
		return true
	}

	o := gatherOptions(opts)
	lines := []string{res.Summary}
	if o.plot && !res.Scalar {
		if res.lhsDims != 2 || res.rhsDims != 2 {
			return usageError(t, ErrPlotShape)
		}
		lines = append(lines, plot(res, o)...)
	}
	lines = append(lines, res.Details...)
	if res.Note != "" {
		lines = append(lines, res.Note)
	}
	return assert.Fail(t, strings.Join(lines, "\n"))
}

// Equal asserts lhs == rhs exactly (rtol = atol = 0).
func Equal(t assert.TestingT, lhs, rhs any, opts ...Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return AlmostEqual(t, lhs, rhs, with(opts, Rtol(0), Atol(0))...)
}

// NotEqual fails t if lhs and rhs are equal within the tolerances.
func NotEqual(t assert.TestingT, lhs, rhs any, opts ...Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return AlmostEqual(t, lhs, rhs, with(opts, Invert())...)
}

var closeOnce, notCloseOnce sync.Once

// Close is AlmostEqual.
//
// Deprecated: use AlmostEqual.
func Close(t assert.TestingT, lhs, rhs any, opts ...Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	closeOnce.Do(func() { log.Warning("Close is deprecated; please use AlmostEqual") })
	return AlmostEqual(t, lhs, rhs, opts...)
}

// NotClose is NotEqual.
//
// Deprecated: use NotEqual.
func NotClose(t assert.TestingT, lhs, rhs any, opts ...Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	notCloseOnce.Do(func() { log.Warning("NotClose is deprecated; please use NotEqual") })
	return NotEqual(t, lhs, rhs, opts...)
}

func with(opts []Option, extra ...Option) []Option {
	return append(opts[:len(opts):len(opts)], extra...)
}

func usageError(t assert.TestingT, err error) bool {
	assert.Fail(t, err.Error())
	if f, ok := t.(failNower); ok {
		f.FailNow()
	}
	return false
}

// plot renders the failure and returns the message lines it adds.
func plot(res *Result, o options) []string {
	p := o.plotter
	if p == nil {
		p = PNGPlotter{}
	}
	name := o.plotFile
	if name == "" {
		f, err := os.CreateTemp("", "floats-*.png")
		if err != nil {
			return []string{fmt.Sprintf("Failure plot requested but no file could be created: %v", err)}
		}
		name = f.Name()
		_ = f.Close()
	}
	err := p.PlotDiff(name, Plot{
		Rows: res.Shape[0],
		Cols: res.Shape[1],
		Lhs:  res.Lhs,
		Rhs:  res.Rhs,
		Diff: res.Diff,
		Bad:  res.Bad,
	})
	if err != nil {
		return []string{fmt.Sprintf("Failure plot requested but could not be written: %v", err)}
	}
	log.Verbose("Failure plot written to %s", name)
	if o.plotFile == "" {
		return []string{"Failure plot written to " + name}
	}
	return nil
}
