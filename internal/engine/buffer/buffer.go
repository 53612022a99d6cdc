package buffer

import (
	"errors"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// Errors returned by buffer edits.
var (
	ErrInvalidRune = errors.New("invalid unicode scalar value")
	ErrBufferFull  = errors.New("buffer is full")
)

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter atomic.Uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(revisionCounter.Add(1))
}

// Buffer is an ordered, mutable sequence of Unicode scalar values.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	runes      []rune
	revisionID RevisionID
	maxLen     int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		revisionID: NewRevisionID(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Invalid UTF-8 in s is stored as utf8.RuneError.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	for _, r := range s {
		if b.maxLen > 0 && len(b.runes) >= b.maxLen {
			break
		}
		b.runes = append(b.runes, r)
	}
	return b
}

// Write Operations

// Append adds r to the end of the buffer.
func (b *Buffer) Append(r rune) (EditResult, error) {
	if !utf8.ValidRune(r) {
		return EditResult{Op: OpAppend, Rune: r}, ErrInvalidRune
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxLen > 0 && len(b.runes) >= b.maxLen {
		return EditResult{Op: OpAppend, Rune: r, Revision: b.revisionID, Len: len(b.runes)}, ErrBufferFull
	}

	b.runes = append(b.runes, r)
	b.revisionID = NewRevisionID()

	return EditResult{
		Op:       OpAppend,
		Rune:     r,
		Changed:  true,
		Revision: b.revisionID,
		Len:      len(b.runes),
	}, nil
}

// DeleteLast removes the last scalar value.
// Deleting from an empty buffer is a no-op and leaves the revision unchanged.
func (b *Buffer) DeleteLast() EditResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.runes)
	if n == 0 {
		return EditResult{Op: OpDeleteLast, Revision: b.revisionID}
	}

	removed := b.runes[n-1]
	b.runes = b.runes[:n-1]
	b.revisionID = NewRevisionID()

	return EditResult{
		Op:       OpDeleteLast,
		Rune:     removed,
		Changed:  true,
		Revision: b.revisionID,
		Len:      n - 1,
	}
}

// Clear removes all content.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.runes) == 0 {
		return
	}
	b.runes = b.runes[:0]
	b.revisionID = NewRevisionID()
}

// SetMaxLen changes the capacity limit. Existing content is never truncated;
// a buffer already above the new limit simply rejects further appends.
func (b *Buffer) SetMaxLen(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n < 0 {
		n = 0
	}
	b.maxLen = n
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.runes)
}

// Runes returns a copy of the buffer content.
func (b *Buffer) Runes() []rune {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneRunes(b.runes)
}

// Len returns the number of scalar values in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.runes)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// MaxLen returns the capacity limit, or zero if unbounded.
func (b *Buffer) MaxLen() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.maxLen
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Snapshot returns a read-only copy of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		runes:      cloneRunes(b.runes),
		revisionID: b.revisionID,
	}
}

func cloneRunes(src []rune) []rune {
	if len(src) == 0 {
		return nil
	}
	out := make([]rune, len(src))
	copy(out, src)
	return out
}
