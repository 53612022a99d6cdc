package buffer

import "fmt"

// EditOp identifies the kind of edit applied to a buffer.
type EditOp uint8

const (
	// OpAppend appends one scalar value to the end of the buffer.
	OpAppend EditOp = iota
	// OpDeleteLast removes the last scalar value, if any.
	OpDeleteLast
)

// String returns the edit operation name.
func (op EditOp) String() string {
	switch op {
	case OpAppend:
		return "append"
	case OpDeleteLast:
		return "delete-last"
	default:
		return "unknown"
	}
}

// EditResult describes the outcome of a single edit.
type EditResult struct {
	// Op is the operation that was requested.
	Op EditOp

	// Rune is the appended or removed scalar value.
	// Zero when a delete-last hit an empty buffer.
	Rune rune

	// Changed reports whether the buffer contents changed.
	Changed bool

	// Revision is the buffer revision after the edit.
	Revision RevisionID

	// Len is the number of scalar values after the edit.
	Len int
}

// String returns a human-readable representation of the result.
func (r EditResult) String() string {
	if !r.Changed {
		return fmt.Sprintf("%s(no-op) len=%d", r.Op, r.Len)
	}
	return fmt.Sprintf("%s(%q) rev=%d len=%d", r.Op, r.Rune, r.Revision, r.Len)
}
