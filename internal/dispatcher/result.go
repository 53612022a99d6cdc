package dispatcher

import (
	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/input/key"
)

// Status describes what happened to a dispatched key event.
type Status uint8

const (
	// StatusApplied means the buffer changed.
	StatusApplied Status = iota
	// StatusNoOp means the event was valid but changed nothing
	// (delete-last on an empty buffer).
	StatusNoOp
	// StatusInvalid means the event carried no scalar value.
	StatusInvalid
	// StatusRejected means the buffer refused the edit (e.g. full).
	StatusRejected
	// StatusUnknown means the event kind is not handled.
	StatusUnknown
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusNoOp:
		return "no-op"
	case StatusInvalid:
		return "invalid"
	case StatusRejected:
		return "rejected"
	case StatusUnknown:
		return "unknown"
	default:
		return "Status(?)"
	}
}

// Result is the outcome of dispatching one key event.
type Result struct {
	// Event is the dispatched key event.
	Event key.Event

	// Status classifies the outcome.
	Status Status

	// Edit is the buffer edit result for applied and no-op events.
	Edit buffer.EditResult

	// Err carries the cause for invalid, rejected and unknown events.
	Err error
}

// Changed returns true if the buffer was modified.
func (r Result) Changed() bool {
	return r.Status == StatusApplied
}
