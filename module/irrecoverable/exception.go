package irrecoverable

import (
	"errors"
	"fmt"
)

// exception marks an unexpected error. Exceptions indicate a bug or a corrupted
// state and are never part of a function's expected error returns.
type exception struct {
	err error
}

func (e exception) Error() string {
	return e.err.Error()
}

func (e exception) Unwrap() error {
	return e.err
}

// NewException wraps err into an exception.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf constructs an exception from a format string.
func NewExceptionf(msg string, args ...interface{}) error {
	return NewException(fmt.Errorf(msg, args...))
}

// IsException reports whether any error in err's chain is an exception.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
