package core

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Merge combines two styles. Non-default colors in other win.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}
