package floats

import "errors"

// Usage errors. They fail the calling test immediately; a tolerance failure
// never produces one of these.
var (
	// ErrNoTolerance is returned when both rtol and atol are disabled.
	ErrNoTolerance = errors.New("floats: rtol and atol cannot both be disabled")

	// ErrShapeMismatch is returned for ragged inputs and for arrays (or relTo)
	// whose shapes differ and cannot be broadcast.
	ErrShapeMismatch = errors.New("floats: shape mismatch")

	// ErrUnsupported is returned for values that are neither numbers, nested
	// slices/arrays of numbers, nor an Array.
	ErrUnsupported = errors.New("floats: unsupported operand type")

	// ErrNonFinite is returned by Compare when an operand holds NaN or ±Inf.
	// The assertion helpers report it as an ordinary test failure.
	ErrNonFinite = errors.New("floats: non-finite values")

	// ErrPlotShape is returned when a failure plot is requested for operands
	// that are not both 2-d.
	ErrPlotShape = errors.New("floats: plotOnFailure is only valid for 2-d arrays")
)

// NonFiniteError names the operand holding NaN or ±Inf. It matches
// ErrNonFinite with errors.Is.
type NonFiniteError struct {
	Operand string // "lhs" or "rhs"
}

func (e *NonFiniteError) Error() string { return "Non-finite values in " + e.Operand }

func (e *NonFiniteError) Is(target error) bool { return target == ErrNonFinite }
