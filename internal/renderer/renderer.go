package renderer

import (
	"sync"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/renderer/backend"
	"github.com/dshills/scribe/internal/renderer/core"
)

// The window has a fixed logical size.
const (
	WindowWidth  = 400
	WindowHeight = 200
)

// Logical units per terminal cell.
const (
	UnitsPerColumn = 8
	UnitsPerRow    = 16
)

// SnapshotSource provides read access to the text being displayed.
type SnapshotSource interface {
	Snapshot() *buffer.Snapshot
}

// Options configures the renderer.
type Options struct {
	Theme       string // "light" or "dark"
	Title       string // drawn in the top border
	Banner      string
	Placeholder string // shown in the field while the buffer is empty
	Hint        string // bottom line; empty hides it

	// Width and Height are the logical window size, WindowWidth by
	// WindowHeight for the real window.
	Width  int
	Height int

	MaxFPS int
}

// DefaultOptions returns the stock window.
func DefaultOptions() Options {
	return Options{
		Theme:       ThemeLight,
		Title:       "Scribe",
		Banner:      "Welcome to Scribe",
		Placeholder: "Your translation here ...",
		Hint:        "Esc to quit",
		Width:       WindowWidth,
		Height:      WindowHeight,
		MaxFPS:      30,
	}
}

// FrameSize returns the window size in cells. A frame is never smaller
// than its border.
func (o Options) FrameSize() (cols, rows int) {
	return max(o.Width/UnitsPerColumn, 3), max(o.Height/UnitsPerRow, 3)
}

func (o Options) minFrameTime() time.Duration {
	if o.MaxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(o.MaxFPS)
}

// Renderer draws the window onto a backend.
type Renderer struct {
	mu sync.Mutex

	opts  Options
	theme Theme

	backend backend.Backend
	width   int
	height  int

	source SnapshotSource

	// Frame timing
	lastFrame    time.Time
	minFrameTime time.Duration
	frameCount   uint64
	needsRedraw  bool

	drawnRevision buffer.RevisionID
}

// New creates a renderer for the given backend.
func New(be backend.Backend, opts Options) *Renderer {
	width, height := be.Size()
	theme, _ := ThemeByName(opts.Theme)
	return &Renderer{
		opts:         opts,
		theme:        theme,
		backend:      be,
		width:        width,
		height:       height,
		minFrameTime: opts.minFrameTime(),
		needsRedraw:  true,
	}
}

// SetSource sets where the field text comes from.
func (r *Renderer) SetSource(src SnapshotSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
	r.needsRedraw = true
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetOptions replaces the options and schedules a redraw.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
	r.theme, _ = ThemeByName(opts.Theme)
	r.minFrameTime = opts.minFrameTime()
	r.needsRedraw = true
}

// Theme returns the active theme.
func (r *Renderer) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
	r.needsRedraw = true
}

// MarkDirty marks the renderer as needing a redraw.
func (r *Renderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw returns true if the renderer needs to redraw.
func (r *Renderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// FrameCount returns the number of frames drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// HandleEvent applies resize and interrupt events. It reports whether
// the event changed anything on screen.
func (r *Renderer) HandleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventResize:
		r.Resize(ev.Width, ev.Height)
		return true
	case backend.EventInterrupt:
		r.MarkDirty()
		return true
	}
	return false
}

// Render draws a frame if something changed since the last one.
// Respects frame rate limiting.
func (r *Renderer) Render() {
	snap := r.snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastFrame) < r.minFrameTime {
		return
	}
	if snap != nil && snap.RevisionID() != r.drawnRevision {
		r.needsRedraw = true
	}
	if !r.needsRedraw {
		return
	}
	r.lastFrame = now
	r.render(snap)
}

// RenderNow performs an immediate render, ignoring frame rate limiting.
func (r *Renderer) RenderNow() {
	snap := r.snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFrame = time.Now()
	r.render(snap)
}

// snapshot copies the source without holding r.mu, so the buffer lock
// and the renderer lock are never nested.
func (r *Renderer) snapshot() *buffer.Snapshot {
	r.mu.Lock()
	src := r.source
	r.mu.Unlock()
	if src == nil {
		return nil
	}
	return src.Snapshot()
}

// FrameRect returns where the window is drawn for the current screen size.
func (r *Renderer) FrameRect() core.ScreenRect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameRect()
}

func (r *Renderer) frameRect() core.ScreenRect {
	cols, rows := r.opts.FrameSize()
	return core.RectFromSize(0, 0, r.height, r.width).CenterIn(cols, rows)
}

// render draws one frame (must hold lock).
func (r *Renderer) render(snap *buffer.Snapshot) {
	be := r.backend
	th := r.theme

	be.Fill(core.RectFromSize(0, 0, r.height, r.width), blank(th.Screen))

	frame := r.frameRect()
	if frame.IsEmpty() {
		be.HideCursor()
		be.Show()
		r.finishFrame(snap)
		return
	}

	be.Fill(frame, blank(th.Window))
	r.drawBorder(frame)

	l := newWindowLayout(frame)
	if l.showLogo {
		for i, line := range logo {
			r.drawCentered(l.logoTop+i, line, th.Logo, l.inner)
		}
	}
	if l.showBanner {
		r.drawCentered(l.bannerRow, r.opts.Banner, th.Banner, l.inner)
	}
	if l.showHint && r.opts.Hint != "" {
		r.drawCentered(l.hintRow, r.opts.Hint, th.Hint, l.inner)
	}
	if l.showField {
		r.drawField(l.field, snap)
	} else {
		be.HideCursor()
	}

	be.Show()
	r.finishFrame(snap)
}

func (r *Renderer) finishFrame(snap *buffer.Snapshot) {
	if snap != nil {
		r.drawnRevision = snap.RevisionID()
	}
	r.needsRedraw = false
	r.frameCount++
}

func (r *Renderer) drawBorder(frame core.ScreenRect) {
	be := r.backend
	style := r.theme.Border
	top, bottom := frame.Top, frame.Bottom-1
	left, right := frame.Left, frame.Right-1

	for x := left + 1; x < right; x++ {
		be.SetCell(x, top, core.NewStyledCell('─', style))
		be.SetCell(x, bottom, core.NewStyledCell('─', style))
	}
	for y := top + 1; y < bottom; y++ {
		be.SetCell(left, y, core.NewStyledCell('│', style))
		be.SetCell(right, y, core.NewStyledCell('│', style))
	}
	be.SetCell(left, top, core.NewStyledCell('╭', style))
	be.SetCell(right, top, core.NewStyledCell('╮', style))
	be.SetCell(left, bottom, core.NewStyledCell('╰', style))
	be.SetCell(right, bottom, core.NewStyledCell('╯', style))

	if r.opts.Title != "" {
		r.drawCentered(top, " "+r.opts.Title+" ", r.theme.Title, frame.Inset(0, 1, 0, 1))
	}
}

// drawField draws the input field with the snapshot text right-aligned to
// the cursor, so the most recent input stays visible.
func (r *Renderer) drawField(field core.ScreenRect, snap *buffer.Snapshot) {
	be := r.backend
	th := r.theme
	be.Fill(field, blank(th.Field))

	if snap == nil || snap.IsEmpty() {
		r.drawCells(field.Left, field.Top, core.CellsFromString(r.opts.Placeholder, th.Placeholder), field)
		be.ShowCursor(field.Left, field.Top)
		return
	}

	// One column is kept free for the cursor.
	cells := core.TailCells(snap.Text(), th.Field, field.Width()-1)
	r.drawCells(field.Left, field.Top, cells, field)
	be.ShowCursor(field.Left+len(cells), field.Top)
}

func (r *Renderer) drawCentered(row int, s string, style core.Style, clip core.ScreenRect) {
	cells := core.CellsFromString(s, style)
	x := clip.Left + (clip.Width()-len(cells))/2
	r.drawCells(max(x, clip.Left), row, cells, clip)
}

// drawCells writes cells starting at (x, y), clipped to clip. A wide cell
// whose second column falls outside clip is replaced by a space.
func (r *Renderer) drawCells(x, y int, cells []core.Cell, clip core.ScreenRect) {
	for i, c := range cells {
		col := x + i
		if !clip.Contains(y, col) {
			continue
		}
		if c.Width > 1 && !clip.Contains(y, col+1) {
			c = core.NewStyledCell(' ', c.Style)
		}
		r.backend.SetCell(col, y, c)
	}
}

func blank(style core.Style) core.Cell {
	return core.NewStyledCell(' ', style)
}
