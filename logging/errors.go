package logging

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHandler is returned by Builder.Build when no handler was added.
	// A registered default handler factory does not count; it only serves
	// BasicConfig and NewDefaultHandler.
	ErrNoHandler = errors.New("logging: no handler configured")

	// ErrUnknownLevel matches every UnknownLevelError via errors.Is.
	ErrUnknownLevel = errors.New("logging: unknown level")
)

// UnknownLevelError reports a level name that is neither registered nor numeric.
type UnknownLevelError struct {
	Name string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("logging: unknown level %q", e.Name)
}

func (e *UnknownLevelError) Is(target error) bool { return target == ErrUnknownLevel }
