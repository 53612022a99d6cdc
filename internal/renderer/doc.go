// Package renderer draws the Scribe window.
//
// The window is a fixed logical size (400x200 units by default) mapped to a
// frame of terminal cells at 8x16 units per cell and centred on screen. It
// shows a title in the border, a banner, a logo block and a single-line
// input field. The field displays the current buffer snapshot, or a
// placeholder when the buffer is empty.
//
// The renderer only reads the buffer. Every frame takes a Snapshot, so the
// buffer lock is held for the copy and nothing else.
//
// Usage:
//
//	be, _ := backend.NewTerminal()
//	r := renderer.New(be, renderer.DefaultOptions())
//	r.SetSource(buf)
//	r.RenderNow()
package renderer
