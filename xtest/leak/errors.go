package leak

import "errors"

var (
	// ErrUnavailable is returned by a FileLister that cannot inspect the
	// process on this platform. The file descriptor check skips on it.
	ErrUnavailable = errors.New("leak: file lister unavailable")

	// ErrBadPattern is returned for an ignore pattern doublestar rejects.
	ErrBadPattern = errors.New("leak: bad ignore pattern")
)
