package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrUnknownKind indicates a key event kind the dispatcher does not handle.
	ErrUnknownKind = errors.New("dispatcher: unknown key event kind")

	// ErrInvalidInput indicates the key event did not carry a scalar value.
	ErrInvalidInput = errors.New("dispatcher: invalid input")
)
