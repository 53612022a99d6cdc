package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FF8000", ColorFromRGB(255, 128, 0), false},
		{"ff8000", ColorFromRGB(255, 128, 0), false},
		{"#fff", ColorWhite, false},
		{"#12", Color{}, true},
		{"#GGGGGG", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustHex should panic on a bad value")
		}
	}()
	MustHex("nope")
}

func TestColorEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want bool
	}{
		{"default", ColorDefault, ColorDefault, true},
		{"default vs rgb", ColorDefault, ColorBlack, false},
		{"indexed same", ColorFromIndex(3), ColorFromIndex(3), true},
		{"indexed vs rgb", ColorFromIndex(3), ColorFromRGB(3, 0, 0), false},
		{"rgb same", ColorFromRGB(1, 2, 3), ColorFromRGB(1, 2, 3), true},
		{"rgb different", ColorFromRGB(1, 2, 3), ColorFromRGB(1, 2, 4), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equals(tt.b); got != tt.want {
			t.Errorf("%s: Equals() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := ColorDefault.String(); got != "default" {
		t.Errorf("String() = %q", got)
	}
	if got := ColorFromIndex(7).String(); got != "idx(7)" {
		t.Errorf("String() = %q", got)
	}
	if got := ColorFromRGB(255, 0, 16).String(); got != "#FF0010" {
		t.Errorf("String() = %q", got)
	}
}

func TestColorBlend(t *testing.T) {
	if got := ColorBlack.Blend(ColorWhite, 0); !got.Equals(ColorBlack) {
		t.Errorf("Blend(0) = %v", got)
	}
	if got := ColorBlack.Blend(ColorWhite, 1); !got.Equals(ColorWhite) {
		t.Errorf("Blend(1) = %v", got)
	}

	mid := ColorBlack.Blend(ColorWhite, 0.5)
	if mid.R < 50 || mid.R > 200 || absDiff(mid.R, mid.G) > 1 || absDiff(mid.G, mid.B) > 1 {
		t.Errorf("Blend(0.5) = %v, want a neutral gray", mid)
	}

	// Indexed colors snap to the nearer endpoint.
	idx := ColorFromIndex(4)
	if got := idx.Blend(ColorWhite, 0.2); !got.Equals(idx) {
		t.Errorf("indexed Blend(0.2) = %v", got)
	}
	if got := idx.Blend(ColorWhite, 0.8); !got.Equals(ColorWhite) {
		t.Errorf("indexed Blend(0.8) = %v", got)
	}
}

func TestColorLightenDarken(t *testing.T) {
	base := ColorFromRGB(100, 100, 100)
	light := base.Lighten(0.5)
	dark := base.Darken(0.5)

	if light.R <= base.R {
		t.Errorf("Lighten() = %v, not lighter than %v", light, base)
	}
	if dark.R >= base.R {
		t.Errorf("Darken() = %v, not darker than %v", dark, base)
	}
	if ColorBlack.Distance(ColorWhite) <= base.Distance(light) {
		t.Error("black/white should be further apart than base/light")
	}
}

func TestStyle(t *testing.T) {
	s := NewStyle(ColorBlack, ColorWhite).Bold()
	if !s.Attributes.Has(AttrBold) {
		t.Error("Bold() not set")
	}
	if s.Attributes.Has(AttrItalic) {
		t.Error("Italic unexpectedly set")
	}
	if !s.Italic().Attributes.Has(AttrItalic) {
		t.Error("Italic() not set")
	}
	if s.Equals(DefaultStyle()) {
		t.Error("styled should differ from default")
	}
	if !DefaultStyle().Equals(Style{Foreground: ColorDefault, Background: ColorDefault}) {
		t.Error("DefaultStyle mismatch")
	}
	if got := s.WithForeground(ColorGray).Foreground; !got.Equals(ColorGray) {
		t.Errorf("WithForeground() = %v", got)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'é', 1},
		{'世', 2},
		{'\t', 0},
		{0x7F, 0},
		{0x85, 0},
		{0x9F, 0},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestCellsFromString(t *testing.T) {
	style := DefaultStyle()

	cells := CellsFromString("a世b", style)
	if len(cells) != 4 {
		t.Fatalf("len = %d, want 4", len(cells))
	}
	if !cells[2].IsContinuation() {
		t.Error("expected continuation after wide rune")
	}
	if got := StringFromCells(cells); got != "a世b" {
		t.Errorf("StringFromCells() = %q", got)
	}

	// e + combining acute is one cell.
	cells = CellsFromString("e\u0301x", style)
	if len(cells) != 2 {
		t.Fatalf("len = %d, want 2", len(cells))
	}
	if len(cells[0].Combining) != 1 {
		t.Errorf("Combining = %q", cells[0].Combining)
	}
	if got := StringFromCells(cells); got != "e\u0301x" {
		t.Errorf("StringFromCells() = %q", got)
	}

	// C0 and C1 controls are dropped, not drawn as zero-width cells.
	cells = CellsFromString("a\x07\u0085\u009fb", style)
	if got := StringFromCells(cells); got != "ab" || len(cells) != 2 {
		t.Errorf("cells = %q (%d), want \"ab\"", got, len(cells))
	}
}

func TestTailCells(t *testing.T) {
	style := DefaultStyle()
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "llo"},
		{"hello", 0, ""},
		{"a世b", 2, "b"},
		{"a世b", 3, "世b"},
	}
	for _, tt := range tests {
		if got := StringFromCells(TailCells(tt.in, style, tt.width)); got != tt.want {
			t.Errorf("TailCells(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCellEquals(t *testing.T) {
	a := NewStyledCell('x', DefaultStyle())
	b := a
	if !a.Equals(b) {
		t.Error("identical cells should be equal")
	}
	b.Combining = []rune{0x301}
	if a.Equals(b) {
		t.Error("cells with different combining runes should differ")
	}
	if !EmptyCell().Equals(NewStyledCell(' ', DefaultStyle())) {
		t.Error("EmptyCell mismatch")
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(0, 0, 10, 20)
	if r.Width() != 20 || r.Height() != 10 {
		t.Errorf("size = %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(9, 19) || r.Contains(10, 0) {
		t.Error("Contains boundaries wrong")
	}

	inner := r.Inset(1, 1, 1, 1)
	if inner != (ScreenRect{Top: 1, Left: 1, Bottom: 9, Right: 19}) {
		t.Errorf("Inset() = %+v", inner)
	}

	if got := r.Intersection(RectFromSize(20, 20, 5, 5)); !got.IsEmpty() {
		t.Errorf("disjoint Intersection() = %+v", got)
	}
}

func TestCenterIn(t *testing.T) {
	screen := RectFromSize(0, 0, 24, 80)

	got := screen.CenterIn(50, 12)
	want := RectFromSize(6, 15, 12, 50)
	if got != want {
		t.Errorf("CenterIn() = %+v, want %+v", got, want)
	}

	// Larger than the screen: clipped.
	small := RectFromSize(0, 0, 5, 20)
	got = small.CenterIn(50, 12)
	if got != small {
		t.Errorf("CenterIn() on small screen = %+v, want %+v", got, small)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
