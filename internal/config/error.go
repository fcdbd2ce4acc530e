package config

import "fmt"

// Error is a configuration problem: malformed file, missing required value,
// or an unreadable local file the plan needs at build time. The CLI treats
// it as fatal before execution and exits with a distinct code.
type Error struct {
	Reason string
	Err    error
}

// Errorf builds an Error from a format string.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that keeps the underlying cause unwrappable.
func Wrap(err error, format string, args ...interface{}) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}
