package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned when a global function does not exist.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrBadResult is returned when translate returns an unusable value.
	ErrBadResult = errors.New("lua translate returned an unusable value")
)
