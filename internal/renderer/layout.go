package renderer

import "github.com/dshills/scribe/internal/renderer/core"

var logo = []string{
	"▄▀▀▀▀",
	" ▀▀▀▄",
	"▀▀▀▀ ",
}

// windowLayout places the window contents inside a frame. Items that do
// not fit are hidden, the field last.
type windowLayout struct {
	inner core.ScreenRect

	bannerRow  int
	showBanner bool

	logoTop  int
	showLogo bool

	field     core.ScreenRect
	showField bool

	hintRow  int
	showHint bool
}

// Rows inside the border for the stock 12-row frame:
//
//	0
//	1 banner
//	2
//	3-5 logo
//	6
//	7 field
//	8
//	9 hint
func newWindowLayout(frame core.ScreenRect) windowLayout {
	inner := frame.Inset(1, 1, 1, 1)
	l := windowLayout{inner: inner}
	h := inner.Height()
	if inner.IsEmpty() {
		return l
	}

	l.showField = true
	row := inner.Top
	if h >= 4 {
		row = inner.Bottom - 3
	}
	left, width := inner.Left, inner.Width()
	if width > 6 {
		left, width = inner.Left+2, inner.Width()-4
	}
	l.field = core.RectFromSize(row, left, 1, width)

	if h >= 6 {
		l.showBanner = true
		l.bannerRow = inner.Top + 1
	}
	if h >= 8 {
		l.showHint = true
		l.hintRow = inner.Bottom - 1
	}
	if h >= 10 {
		l.showLogo = true
		l.logoTop = inner.Top + 3
	}
	return l
}
