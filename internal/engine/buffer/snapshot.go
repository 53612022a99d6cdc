package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	runes      []rune
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return string(s.runes)
}

// Runes returns a copy of the snapshot content.
func (s *Snapshot) Runes() []rune {
	return cloneRunes(s.runes)
}

// Len returns the number of scalar values in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.runes)
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return len(s.runes) == 0
}

// Last returns the last scalar value, if any.
func (s *Snapshot) Last() (rune, bool) {
	if len(s.runes) == 0 {
		return 0, false
	}
	return s.runes[len(s.runes)-1], true
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
