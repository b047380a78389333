package jsonpatch

import "errors"

var (
	// ErrInvalidPath is returned when a string is not a valid JSON Pointer
	// (RFC 6901), or when an array token is neither an index nor "-".
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathNotFound is returned when a pointer does not resolve to a location
	// in the document: a missing key, an index out of bounds, a scalar that
	// cannot be descended into, or "-" where an existing element is required.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrTestFailed is returned when a test operation resolves its path but the
	// value found differs from the expected one.
	ErrTestFailed = errors.New("test failed")

	// ErrInvalidOperation is returned for operations that are malformed, such as
	// an unknown op or a missing member.
	ErrInvalidOperation = errors.New("invalid operation")
)
