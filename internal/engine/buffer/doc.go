// Package buffer provides the thread-safe display text shared between the
// ingress listener and the UI shell.
//
// The buffer holds an ordered sequence of Unicode scalar values and supports
// exactly two edits: appending one scalar at the end and deleting the last
// scalar. Every element is guaranteed to satisfy utf8.ValidRune.
//
// Basic usage:
//
//	buf := buffer.NewBuffer()
//
//	buf.Append('H')
//	buf.Append('i')   // "Hi"
//	buf.DeleteLast()  // "H"
//
//	// Take a snapshot for rendering
//	snap := buf.Snapshot()
//	fmt.Println(snap.Text())
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Edits acquire an exclusive write lock,
// so there is a single serialization point no matter how many producers
// exist. Readers should call Snapshot() to obtain an immutable copy instead of
// holding a reference across a redraw; the lock is only held for the copy.
//
// Revisions:
//
// Every successful edit assigns a new RevisionID. Revision IDs increase
// monotonically across all buffers in the process, which lets the UI shell
// skip redraws when nothing changed since its last snapshot.
package buffer
