package key

import "unicode/utf8"

// DecodeByte interprets b's numeric value as a code point and returns the
// corresponding event.
func DecodeByte(b byte) Event {
	return DecodeCode(uint32(b))
}

// DecodeCode converts an arbitrary code into an event. Backspace becomes a
// delete-last request; any code that is not a Unicode scalar value
// (surrogates, values above U+10FFFF) becomes KindInvalid.
func DecodeCode(code uint32) Event {
	if code == Backspace {
		return NewDeleteLastEvent()
	}
	if code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
		return NewInvalidEvent(code)
	}
	return NewAppendEvent(rune(code))
}

// Decoder turns a byte stream into key events, one event per byte.
type Decoder struct {
	translate func(code uint32) (uint32, bool)
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithTranslator installs a translation step applied to each code before it
// is decoded. The translator returns the replacement code and false when
// the input should be dropped entirely.
func WithTranslator(fn func(code uint32) (uint32, bool)) DecoderOption {
	return func(d *Decoder) {
		d.translate = fn
	}
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode converts one received byte into an event. The second return value
// is false when a translator dropped the byte.
func (d *Decoder) Decode(b byte) (Event, bool) {
	code := uint32(b)
	if d.translate != nil {
		translated, keep := d.translate(code)
		if !keep {
			return Event{}, false
		}
		code = translated
	}
	return DecodeCode(code), true
}
