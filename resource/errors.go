package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports data whose shape or size does not match the format.
	ErrFormat = errors.New("resource: invalid format")
	// ErrBounds reports an index or offset outside its valid range.
	ErrBounds = errors.New("resource: out of bounds")
)

func formatError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

func boundsError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBounds, fmt.Sprintf(format, args...))
}
