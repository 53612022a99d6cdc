package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithMaxLen limits the number of scalar values the buffer may hold.
// Appends beyond the limit fail with ErrBufferFull. Zero or a negative
// value means unbounded.
func WithMaxLen(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxLen = n
		}
	}
}

// WithCapacity preallocates room for n scalar values.
func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.runes = make([]rune, 0, n)
		}
	}
}
