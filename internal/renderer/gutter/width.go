package gutter

import "strconv"

// DefaultPadding is the fixed space, in pixels, added to the digit column.
const DefaultPadding = 3.0

// DigitsNeeded returns the decimal digits in max(1, lineCount).
func DigitsNeeded(lineCount int) int {
	n := max(lineCount, 1)
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}

// ComputeWidth returns the gutter width for lineCount lines with the default
// padding.
func ComputeWidth(lineCount int, digitAdvance float64) float64 {
	return computeWidth(lineCount, digitAdvance, DefaultPadding)
}

func computeWidth(lineCount int, digitAdvance, padding float64) float64 {
	return padding + digitAdvance*float64(DigitsNeeded(lineCount))
}

// FormatNumber converts a line number to its decimal string.
func FormatNumber(n int) string {
	return strconv.Itoa(n)
}

// PadLeft pads s with spaces on the left to width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := make([]byte, width-len(s))
	for i := range padding {
		padding[i] = ' '
	}
	return string(padding) + s
}

// LineNumberMode defines how terminal line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute LineNumberMode = iota

	// LineNumberRelative shows distance from the caret line.
	LineNumberRelative

	// LineNumberHybrid shows absolute for the caret line, relative for others.
	LineNumberHybrid
)

// ParseLineNumberMode parses "absolute", "relative" or "hybrid".
func ParseLineNumberMode(s string) (LineNumberMode, bool) {
	switch s {
	case "", "absolute":
		return LineNumberAbsolute, true
	case "relative":
		return LineNumberRelative, true
	case "hybrid":
		return LineNumberHybrid, true
	}
	return LineNumberAbsolute, false
}

// displayNumber returns the number shown for a 0-based line.
func displayNumber(mode LineNumberMode, line, caret int) int {
	switch mode {
	case LineNumberRelative:
		return absDiff(line, caret)
	case LineNumberHybrid:
		if line == caret {
			return line + 1
		}
		return absDiff(line, caret)
	default:
		return line + 1
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
