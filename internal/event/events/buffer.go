package events

import "github.com/dshills/scribe/internal/event/topic"

// Buffer event topics.
const (
	// TopicBufferChanged is published after every edit that changed the buffer.
	TopicBufferChanged topic.Topic = "buffer.changed"

	// TopicBufferRejected is published when a key event was not applied
	// (invalid input, full buffer).
	TopicBufferRejected topic.Topic = "buffer.rejected"
)

// BufferChanged is the payload for TopicBufferChanged.
type BufferChanged struct {
	// Op is the edit that was applied ("append" or "delete-last").
	Op string

	// Rune is the appended or removed scalar value.
	Rune rune

	// Revision is the buffer revision after the edit.
	Revision uint64

	// Len is the number of scalar values after the edit.
	Len int
}

// BufferRejected is the payload for TopicBufferRejected.
type BufferRejected struct {
	// Code is the raw input code.
	Code uint32

	// Reason describes why the input was not applied.
	Reason string
}
