// Package dispatcher applies decoded key events to the shared text buffer.
//
// The dispatcher is the only component that mutates the buffer. Each key
// event is handled exhaustively:
//
//   - key.KindAppend appends the scalar value
//   - key.KindDeleteLast removes the last scalar value, or does nothing
//     when the buffer is empty
//   - key.KindInvalid is logged and never mutates the buffer
//
// Any other kind is reported as StatusUnknown with ErrUnknownKind.
//
// After every change the dispatcher publishes events.TopicBufferChanged so
// the UI shell can redraw; rejected input publishes events.TopicBufferRejected.
package dispatcher
