// Package key defines the key events produced by the ingress listener.
//
// A key event is derived from exactly one received byte. The byte value is
// interpreted directly as a Unicode code point (it is not a UTF-8 decode of
// a multi-byte sequence), which limits the wire protocol to U+0000..U+00FF.
//
// Events form a closed set of kinds:
//
//   - KindAppend: append Rune to the buffer
//   - KindDeleteLast: remove the last scalar value (backspace, 0x08)
//   - KindInvalid: the code was not a Unicode scalar value; Code holds it
//
// Consumers are expected to switch over all three kinds. Decoding never
// fails: inputs that cannot be represented become KindInvalid events.
package key
