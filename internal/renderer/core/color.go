// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between the renderer packages and the backend.
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

// ColorFromHex creates a color from a hex string ("#RRGGBB" or "#RGB").
func ColorFromHex(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustHex is ColorFromHex for compile-time palette constants.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
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
	if c.IsDefault() {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return c.ToHex()
}

// ToHex returns the hex representation of a true color.
func (c Color) ToHex() string {
	if c.Indexed || c.Default {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Blend mixes other over c. amount 0 keeps c, 1 yields other.
// Indexed and default colors cannot be mixed and snap to the nearer end.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || other.Indexed || c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	amount = min(max(amount, 0), 1)
	r, g, b := c.colorful().BlendRgb(other.colorful(), amount).Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// RGBA is a color with an alpha channel, used for translucent overlays.
type RGBA struct {
	Color Color
	Alpha uint8
}

// Over composites the translucent color over an opaque background.
func (o RGBA) Over(bg Color) Color {
	return bg.Blend(o.Color, float64(o.Alpha)/255)
}
