package floats

import "fmt"

// Defaults (single source of truth).
const (
	// DefaultTolerance is the double-precision machine epsilon, the default
	// for both rtol and atol.
	DefaultTolerance = 2.220446049250313e-16

	// DefaultMaxPrinted caps the failing elements listed in a message.
	DefaultMaxPrinted = 100
)

// Option configures one comparison. Options apply in order; later ones win.
type Option func(*options)

type options struct {
	rtol, atol       float64
	useRtol, useAtol bool
	relTo            any

	printFailures bool
	maxPrinted    int

	plotter  Plotter
	plotFile string
	plot     bool

	invert bool
	msg    string
}

func defaultOptions() options {
	return options{
		rtol:          DefaultTolerance,
		atol:          DefaultTolerance,
		useRtol:       true,
		useAtol:       true,
		printFailures: true,
		maxPrinted:    DefaultMaxPrinted,
	}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Rtol sets the relative tolerance and enables the relative term.
func Rtol(v float64) Option {
	return func(o *options) { o.rtol, o.useRtol = v, true }
}

// Atol sets the absolute tolerance and enables the absolute term.
func Atol(v float64) Option {
	return func(o *options) { o.atol, o.useAtol = v, true }
}

// NoRtol drops the relative term from the comparison.
func NoRtol() Option { return func(o *options) { o.useRtol = false } }

// NoAtol drops the absolute term from the comparison.
func NoAtol() Option { return func(o *options) { o.useAtol = false } }

// RelTo sets the magnitude rtol is relative to: a scalar or an operand with
// the compared shape. Its absolute value is used. By default it is the
// elementwise max(|lhs|, |rhs|).
func RelTo(v any) Option { return func(o *options) { o.relTo = v } }

// PrintFailures toggles the listing of failing elements (on by default).
func PrintFailures(on bool) Option { return func(o *options) { o.printFailures = on } }

// MaxPrinted caps the listing; n <= 0 lists every failing element.
func MaxPrinted(n int) Option { return func(o *options) { o.maxPrinted = n } }

// PlotOnFailure renders lhs, rhs and their difference with p when an array
// comparison fails. Both operands must be 2-d. An empty fileName writes to a
// new temporary file whose path is added to the failure message.
func PlotOnFailure(p Plotter, fileName string) Option {
	return func(o *options) { o.plotter, o.plotFile, o.plot = p, fileName, true }
}

// Invert fails only if the operands ARE equal within the tolerances.
func Invert() Option { return func(o *options) { o.invert = true } }

// Msg appends a message to the failure output.
func Msg(format string, args ...any) Option {
	return func(o *options) {
		if len(args) > 0 {
			o.msg = fmt.Sprintf(format, args...)
			return
		}
		o.msg = format
	}
}
