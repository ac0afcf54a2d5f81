package pkg

import (
	"fmt"
	"strings"
)

// Error represents a chain of errors, innermost first.
type Error []error

// ErrInvalidVersion is returned when the embedded VERSION file does not hold
// a semantic version.
var ErrInvalidVersion = MakeErrorf("invalid version")

// ErrSourceNotFound is returned when a source file cannot be found in the
// working directory or on the search path.
//
// It is wrapped with the requested name.
var ErrSourceNotFound = MakeErrorf("source file not found")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Chains are flattened, and nil is returned if no non-nil errors are
// provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		switch chain := err.(type) {
		case nil:
		case Error:
			e = append(e, chain...)
		default:
			e = append(e, err)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the messages of the chain with ": ", innermost first.
func (e Error) Error() string {
	msgs := make([]string, 0, len(e))

	for _, err := range e {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, ": ")
}

// Wrap returns a new chain with errs appended after the receiver's errors.
func (e Error) Wrap(errs ...error) Error {
	return append(e[:len(e):len(e)], MakeError(errs...)...)
}

// Wrapf returns a new chain with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain for [errors.Is] and [errors.As].
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is a chain whose errors all appear, in order, at
// the start of the receiver. This makes a sentinel match every chain built
// from it with Wrap.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[i] != t[i] {
			return false
		}
	}

	return true
}
