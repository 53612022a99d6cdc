package renderer

import (
	"strings"

	"github.com/dshills/scribe/internal/renderer/core"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme holds the styles used to draw the window.
type Theme struct {
	Name        string
	Screen      core.Style // area outside the frame
	Window      core.Style
	Border      core.Style
	Title       core.Style
	Banner      core.Style
	Logo        core.Style
	Field       core.Style
	Placeholder core.Style
	Hint        core.Style
}

// LightTheme returns the default theme.
func LightTheme() Theme {
	window := core.MustHex("#f6f5f2")
	ink := core.MustHex("#2b2b2b")
	accent := core.MustHex("#3a6ea5")
	field := window.Darken(0.08)

	return newTheme(ThemeLight, window, ink, accent, field)
}

// DarkTheme returns the dark theme.
func DarkTheme() Theme {
	window := core.MustHex("#1e2127")
	ink := core.MustHex("#d7dae0")
	accent := core.MustHex("#61afef")
	field := window.Lighten(0.08)

	return newTheme(ThemeDark, window, ink, accent, field)
}

func newTheme(name string, window, ink, accent, field core.Color) Theme {
	muted := ink.Blend(window, 0.55)
	return Theme{
		Name:        name,
		Screen:      core.NewStyle(core.ColorDefault, core.ColorDefault),
		Window:      core.NewStyle(ink, window),
		Border:      core.NewStyle(muted, window),
		Title:       core.NewStyle(accent, window).Bold(),
		Banner:      core.NewStyle(ink, window).Bold(),
		Logo:        core.NewStyle(accent, window),
		Field:       core.NewStyle(ink, field),
		Placeholder: core.NewStyle(muted, field).Italic(),
		Hint:        core.NewStyle(muted, window),
	}
}

// ThemeByName returns the named theme. Unknown names fall back to the
// light theme and report false.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(name) {
	case ThemeLight, "":
		return LightTheme(), true
	case ThemeDark:
		return DarkTheme(), true
	}
	return LightTheme(), false
}
