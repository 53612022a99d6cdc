package key

import (
	"fmt"
	"time"
)

// Backspace is the control code that requests a delete-last edit.
const Backspace = 0x08

// Kind identifies the kind of key event.
type Kind uint8

const (
	// KindInvalid is an input that did not decode to a scalar value.
	// It is the zero value so an uninitialised Event is never applied.
	KindInvalid Kind = iota
	// KindAppend appends Event.Rune.
	KindAppend
	// KindDeleteLast removes the last scalar value.
	KindDeleteLast
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAppend:
		return "append"
	case KindDeleteLast:
		return "delete-last"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event represents one decoded unit of input.
type Event struct {
	// Kind identifies what the event asks for.
	Kind Kind

	// Rune is the scalar value to append (KindAppend only).
	Rune rune

	// Code is the raw code the event was decoded from.
	Code uint32

	// Timestamp is when the event was decoded.
	Timestamp time.Time
}

// NewAppendEvent creates an event that appends r.
func NewAppendEvent(r rune) Event {
	return Event{
		Kind:      KindAppend,
		Rune:      r,
		Code:      uint32(r),
		Timestamp: time.Now(),
	}
}

// NewDeleteLastEvent creates a delete-last event.
func NewDeleteLastEvent() Event {
	return Event{
		Kind:      KindDeleteLast,
		Code:      Backspace,
		Timestamp: time.Now(),
	}
}

// NewInvalidEvent creates an event for a code that is not a scalar value.
func NewInvalidEvent(code uint32) Event {
	return Event{
		Kind:      KindInvalid,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// IsAppend returns true if this event appends a scalar value.
func (e Event) IsAppend() bool {
	return e.Kind == KindAppend
}

// IsDeleteLast returns true if this event deletes the last scalar value.
func (e Event) IsDeleteLast() bool {
	return e.Kind == KindDeleteLast
}

// IsInvalid returns true if this event carries no applicable input.
func (e Event) IsInvalid() bool {
	return e.Kind == KindInvalid
}

// String returns a human-readable representation of the event.
func (e Event) String() string {
	switch e.Kind {
	case KindAppend:
		return fmt.Sprintf("append(%q)", e.Rune)
	case KindDeleteLast:
		return "delete-last"
	case KindInvalid:
		return fmt.Sprintf("invalid(%#x)", e.Code)
	default:
		return e.Kind.String()
	}
}
