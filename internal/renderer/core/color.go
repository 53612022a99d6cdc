package core

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorGray  = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rrggbb" or "#rgb"; the leading # is optional.
func ColorFromHex(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

// MustHex is ColorFromHex for constant theme tables. It panics on a bad
// value.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return c.ToHex()
	}
}

// ToHex returns the hex representation of a true color.
func (c Color) ToHex() string {
	if c.Indexed || c.Default {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Blend mixes c toward other in Lab space. amount 0 gives c, 1 gives other.
// Indexed and default colors cannot be mixed; the nearer endpoint wins.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || other.Indexed || c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), amount))
}

// Lighten blends the color toward white.
func (c Color) Lighten(amount float64) Color {
	return c.Blend(ColorWhite, amount)
}

// Darken blends the color toward black.
func (c Color) Darken(amount float64) Color {
	return c.Blend(ColorBlack, amount)
}

// Distance returns the perceptual distance between two true colors.
func (c Color) Distance(other Color) float64 {
	return c.colorful().DistanceCIEDE2000(other.colorful())
}
