/*
Package ciaerr defines the failure type reported by every converter in this
module. A failure carries the operation that failed, the path involved and
one of a small set of kinds which callers can test for with errors.Is.
*/
package ciaerr

import (
	"errors"
	"fmt"
)

// The failure kinds.
var (
	// ErrFormat means the input has the wrong magic, version or declared
	// length.
	ErrFormat = errors.New("format mismatch")
	// ErrUnsupportedTarget means the destination format is not handled.
	ErrUnsupportedTarget = errors.New("unsupported target")
	// ErrSink means saving the converted result failed.
	ErrSink = errors.New("save failed")
	// ErrMalformed means the input ended or was inconsistent in the middle
	// of a fixed-size read.
	ErrMalformed = errors.New("malformed stream")
)

// Error is a tagged conversion failure.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// New returns a new Error.
func New(kind error, op, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Kind: kind,
		Err:  err,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}
