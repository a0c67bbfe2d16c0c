// Package style maps highlight roles to the colors and attributes the
// renderer paints with.
package style

import (
	"strings"

	"github.com/dshills/pylight/internal/renderer/core"
	"github.com/dshills/pylight/internal/renderer/highlight"
)

// RenderStyle is how one highlight role is drawn.
type RenderStyle struct {
	Foreground core.Color
	Bold       bool
	Italic     bool
}

// ToCoreStyle converts a palette entry into a renderer style with the
// default background.
func ToCoreStyle(rs RenderStyle) core.Style {
	s := core.NewStyle(rs.Foreground)
	if rs.Bold {
		s = s.Bold()
	}
	if rs.Italic {
		s = s.Italic()
	}
	return s
}

// Theme names accepted by the settings store.
const (
	ThemeDark    = "Dark"
	ThemeLight   = "Light"
	ThemeDracula = "Dracula"
)

// Palette is a complete color scheme: the editor chrome plus one
// RenderStyle per highlight role.
type Palette struct {
	Name string

	Background        core.Color
	Text              core.Color
	LineNumbers       core.Color
	LineNumbersActive core.Color
	Selection         core.Color

	// CurrentLine is painted over the caret line across the full width.
	CurrentLine core.RGBA

	roles map[highlight.StyleID]RenderStyle
}

// currentLine is the caret-line overlay shared by every palette.
var currentLine = core.RGBA{Color: core.MustHex("#283593"), Alpha: 0x40}

func draculaRoles() map[highlight.StyleID]RenderStyle {
	return map[highlight.StyleID]RenderStyle{
		highlight.StyleKeyword:      {Foreground: core.MustHex("#FF79C6"), Bold: true},
		highlight.StyleBuiltin:      {Foreground: core.MustHex("#66D9EF")},
		highlight.StyleDecorator:    {Foreground: core.MustHex("#FFB86C")},
		highlight.StyleString:       {Foreground: core.MustHex("#F1FA8C")},
		highlight.StyleComment:      {Foreground: core.MustHex("#6272A4"), Italic: true},
		highlight.StyleNumber:       {Foreground: core.MustHex("#BD93F9")},
		highlight.StylePreprocessor: {Foreground: core.MustHex("#F92672")},
	}
}

// DefaultPalette is the editor's stock scheme. It is the Dark theme.
func DefaultPalette() Palette {
	return Dark()
}

// Dark returns the default dark scheme.
func Dark() Palette {
	return Palette{
		Name:              ThemeDark,
		Background:        core.MustHex("#1E1E1E"),
		Text:              core.MustHex("#F8F8F2"),
		LineNumbers:       core.MustHex("#6272A4"),
		LineNumbersActive: core.MustHex("#F8F8F2"),
		Selection:         core.MustHex("#44475A"),
		CurrentLine:       currentLine,
		roles:             draculaRoles(),
	}
}

// Dracula returns the Dracula scheme. It shares Dark's role colors on the
// Dracula background.
func Dracula() Palette {
	p := Dark()
	p.Name = ThemeDracula
	p.Background = core.MustHex("#282A36")
	return p
}

// Light returns a scheme for light backgrounds.
func Light() Palette {
	return Palette{
		Name:              ThemeLight,
		Background:        core.MustHex("#FFFFFF"),
		Text:              core.MustHex("#000000"),
		LineNumbers:       core.MustHex("#237893"),
		LineNumbersActive: core.MustHex("#000000"),
		Selection:         core.MustHex("#ADD6FF"),
		CurrentLine:       currentLine,
		roles: map[highlight.StyleID]RenderStyle{
			highlight.StyleKeyword:      {Foreground: core.MustHex("#AF00DB"), Bold: true},
			highlight.StyleBuiltin:      {Foreground: core.MustHex("#267F99")},
			highlight.StyleDecorator:    {Foreground: core.MustHex("#795E26")},
			highlight.StyleString:       {Foreground: core.MustHex("#A31515")},
			highlight.StyleComment:      {Foreground: core.MustHex("#008000"), Italic: true},
			highlight.StyleNumber:       {Foreground: core.MustHex("#098658")},
			highlight.StylePreprocessor: {Foreground: core.MustHex("#0000FF")},
		},
	}
}

// PaletteByName returns the named theme, case-insensitively. Unknown names
// fall back to Dark.
func PaletteByName(name string) Palette {
	switch strings.ToLower(name) {
	case "light":
		return Light()
	case "dracula":
		return Dracula()
	default:
		return Dark()
	}
}

// Role returns the RenderStyle for id. StyleNone and unknown roles draw in
// the text color.
func (p Palette) Role(id highlight.StyleID) RenderStyle {
	if rs, ok := p.roles[id]; ok {
		return rs
	}
	return RenderStyle{Foreground: p.Text}
}

// Base is the style of unhighlighted text.
func (p Palette) Base() core.Style {
	return core.NewStyle(p.Text).WithBackground(p.Background)
}

// Resolve returns the full cell style for id on the palette background.
func (p Palette) Resolve(id highlight.StyleID) core.Style {
	return p.Base().Merge(ToCoreStyle(p.Role(id)))
}

// ResolveLine styles n columns from flattened spans. Columns outside every
// span get the base style.
func (p Palette) ResolveLine(spans []highlight.Span, n int) []core.Style {
	styles := make([]core.Style, n)
	base := p.Base()
	for i := range styles {
		styles[i] = base
	}
	for _, sp := range spans {
		st := p.Resolve(sp.Style)
		for col := max(sp.Start, 0); col < sp.End() && col < n; col++ {
			styles[col] = st
		}
	}
	return styles
}

// CurrentLineBackground is the caret-line overlay composited onto the
// palette background.
func (p Palette) CurrentLineBackground() core.Color {
	return p.CurrentLine.Over(p.Background)
}
