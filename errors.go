package proxied

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every *ArgumentError via errors.Is.
var ErrInvalidArgument = errors.New("proxied: invalid argument")

// ArgumentError reports a rejected argument. It is always returned
// synchronously, before the Record is touched.
type ArgumentError struct {
	Op     string
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxied: %s: %s %s", e.Op, e.Arg, e.Reason)
}

// Unwrap exposes ErrInvalidArgument so callers can test with errors.Is.
func (e *ArgumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrInvalidArgument
}

func argumentError(op, arg, format string, args ...any) error {
	return &ArgumentError{
		Op:     op,
		Arg:    arg,
		Reason: fmt.Sprintf(format, args...),
	}
}
