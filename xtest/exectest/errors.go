package exectest

import "errors"

var (
	// ErrNoneDiscovered is returned by Check when discovery found nothing.
	ErrNoneDiscovered = errors.New("exectest: no executables discovered")

	// ErrBadPattern is returned for an exclude pattern doublestar rejects.
	ErrBadPattern = errors.New("exectest: bad exclude pattern")
)
