package ingress

import (
	"errors"
	"fmt"
)

// Errors returned by the ingress listener.
var (
	// ErrBind indicates the listen address could not be bound.
	ErrBind = errors.New("failed to bind listen address")

	// ErrNotListening is returned by Serve when Listen has not succeeded.
	ErrNotListening = errors.New("listener not bound")

	// ErrAlreadyListening is returned when Listen is called twice.
	ErrAlreadyListening = errors.New("listener already bound")

	// ErrAlreadyServing is returned when Serve is called while running.
	ErrAlreadyServing = errors.New("listener already serving")

	// ErrListenerClosed is returned when operating on a closed listener.
	ErrListenerClosed = errors.New("listener closed")
)

// BindError describes a failed bind.
type BindError struct {
	Address string
	Err     error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Address, e.Err)
}

// Unwrap returns the underlying network error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBind.
func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

// SessionError describes the failure that ended a session.
type SessionError struct {
	SessionID  string
	RemoteAddr string
	Err        error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s (%s): %v", e.SessionID, e.RemoteAddr, e.Err)
}

// Unwrap returns the underlying read error.
func (e *SessionError) Unwrap() error {
	return e.Err
}
