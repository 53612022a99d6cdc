package buffer

import (
	"errors"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}

	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := NewBufferFromString("héllo")

	if b.Text() != "héllo" {
		t.Errorf("expected %q, got %q", "héllo", b.Text())
	}

	if b.Len() != 5 {
		t.Errorf("expected 5 scalar values, got %d", b.Len())
	}
}

func TestNewBufferFromStringRespectsMaxLen(t *testing.T) {
	b := NewBufferFromString("abcdef", WithMaxLen(3))

	if b.Text() != "abc" {
		t.Errorf("expected %q, got %q", "abc", b.Text())
	}
}

func TestBufferAppend(t *testing.T) {
	b := NewBuffer()

	for _, r := range "Hi!" {
		res, err := b.Append(r)
		if err != nil {
			t.Fatalf("append %q failed: %v", r, err)
		}
		if !res.Changed {
			t.Errorf("append %q should report a change", r)
		}
		if res.Rune != r {
			t.Errorf("expected rune %q in result, got %q", r, res.Rune)
		}
	}

	if b.Text() != "Hi!" {
		t.Errorf("expected %q, got %q", "Hi!", b.Text())
	}
}

func TestBufferAppendInvalidRune(t *testing.T) {
	b := NewBufferFromString("ok")
	rev := b.RevisionID()

	for _, r := range []rune{0xD800, 0xDFFF, 0x110000, -1} {
		_, err := b.Append(r)
		if !errors.Is(err, ErrInvalidRune) {
			t.Errorf("Append(%#x): expected ErrInvalidRune, got %v", r, err)
		}
	}

	if b.Text() != "ok" {
		t.Errorf("invalid appends changed buffer: %q", b.Text())
	}
	if b.RevisionID() != rev {
		t.Error("invalid appends should not create a revision")
	}
}

func TestBufferAppendFull(t *testing.T) {
	b := NewBuffer(WithMaxLen(2))

	if _, err := b.Append('a'); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Append('b'); err != nil {
		t.Fatal(err)
	}

	res, err := b.Append('c')
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	if res.Changed {
		t.Error("rejected append should not report a change")
	}
	if b.Text() != "ab" {
		t.Errorf("expected %q, got %q", "ab", b.Text())
	}

	// Deleting frees room again.
	b.DeleteLast()
	if _, err := b.Append('z'); err != nil {
		t.Errorf("append after delete failed: %v", err)
	}
	if b.Text() != "az" {
		t.Errorf("expected %q, got %q", "az", b.Text())
	}
}

func TestBufferDeleteLast(t *testing.T) {
	b := NewBufferFromString("Hi")

	res := b.DeleteLast()
	if !res.Changed || res.Rune != 'i' || res.Len != 1 {
		t.Errorf("unexpected result %v", res)
	}
	if b.Text() != "H" {
		t.Errorf("expected %q, got %q", "H", b.Text())
	}
}

func TestBufferDeleteLastMultibyte(t *testing.T) {
	b := NewBufferFromString("aé")

	b.DeleteLast()
	if b.Text() != "a" {
		t.Errorf("expected exactly one scalar removed, got %q", b.Text())
	}
}

func TestBufferDeleteLastEmpty(t *testing.T) {
	b := NewBuffer()
	rev := b.RevisionID()

	for i := 0; i < 3; i++ {
		res := b.DeleteLast()
		if res.Changed {
			t.Error("delete on empty buffer should be a no-op")
		}
		if res.Revision != rev {
			t.Errorf("expected revision %d, got %d", rev, res.Revision)
		}
	}

	if !b.IsEmpty() {
		t.Error("buffer should still be empty")
	}
	if b.RevisionID() != rev {
		t.Error("no-op delete should not create a revision")
	}
}

func TestBufferRevisionsIncrease(t *testing.T) {
	b := NewBuffer()
	prev := b.RevisionID()

	res, _ := b.Append('x')
	if res.Revision <= prev {
		t.Errorf("append revision %d not after %d", res.Revision, prev)
	}
	prev = res.Revision

	del := b.DeleteLast()
	if del.Revision <= prev {
		t.Errorf("delete revision %d not after %d", del.Revision, prev)
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.RevisionID()

	b.Clear()
	if !b.IsEmpty() {
		t.Error("buffer should be empty after Clear")
	}
	if b.RevisionID() == rev {
		t.Error("Clear should create a revision")
	}

	rev = b.RevisionID()
	b.Clear()
	if b.RevisionID() != rev {
		t.Error("clearing an empty buffer should not create a revision")
	}
}

func TestBufferSetMaxLen(t *testing.T) {
	b := NewBufferFromString("abcd")
	b.SetMaxLen(2)

	if b.MaxLen() != 2 {
		t.Errorf("expected max len 2, got %d", b.MaxLen())
	}
	if b.Text() != "abcd" {
		t.Error("SetMaxLen must not truncate existing content")
	}
	if _, err := b.Append('e'); !errors.Is(err, ErrBufferFull) {
		t.Errorf("expected ErrBufferFull, got %v", err)
	}

	b.SetMaxLen(-5)
	if b.MaxLen() != 0 {
		t.Errorf("negative limit should mean unbounded, got %d", b.MaxLen())
	}
}

func TestBufferRunesIsCopy(t *testing.T) {
	b := NewBufferFromString("abc")

	runes := b.Runes()
	runes[0] = 'X'

	if b.Text() != "abc" {
		t.Error("modifying Runes() result changed the buffer")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewBufferFromString("Hello")
	snap := b.Snapshot()

	b.Append('!')
	b.DeleteLast()
	b.DeleteLast()

	if snap.Text() != "Hello" {
		t.Errorf("snapshot changed: %q", snap.Text())
	}
	if snap.Len() != 5 {
		t.Errorf("expected snapshot len 5, got %d", snap.Len())
	}
	if snap.RevisionID() == b.RevisionID() {
		t.Error("snapshot revision should differ after edits")
	}

	last, ok := snap.Last()
	if !ok || last != 'o' {
		t.Errorf("expected last 'o', got %q (%v)", last, ok)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	snap := NewBuffer().Snapshot()

	if !snap.IsEmpty() {
		t.Error("snapshot of empty buffer should be empty")
	}
	if _, ok := snap.Last(); ok {
		t.Error("Last on empty snapshot should report false")
	}
	if snap.Runes() != nil {
		t.Error("expected nil runes for empty snapshot")
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup

	const writers = 4
	const perWriter = 250

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := b.Append('a'); err != nil {
					t.Errorf("append failed: %v", err)
					return
				}
			}
		}()
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				snap := b.Snapshot()
				for _, c := range snap.Runes() {
					if c != 'a' {
						t.Errorf("observed partial write: %q", c)
						return
					}
				}
			}
		}()
	}

	wg.Wait()

	if b.Len() != writers*perWriter {
		t.Errorf("expected %d runes, got %d", writers*perWriter, b.Len())
	}
}

func TestEditOpString(t *testing.T) {
	tests := []struct {
		op       EditOp
		expected string
	}{
		{OpAppend, "append"},
		{OpDeleteLast, "delete-last"},
		{EditOp(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.expected {
			t.Errorf("EditOp(%d).String() = %q, expected %q", tt.op, got, tt.expected)
		}
	}
}
