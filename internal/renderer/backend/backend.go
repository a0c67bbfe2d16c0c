// Package backend draws cells to a terminal and reports input events.
package backend

import "github.com/dshills/pylight/internal/renderer/core"

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int
}

// Key represents a keyboard key.
type Key int

// Keys the viewer reacts to.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlQ
	KeyBackspace
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseWheelUp
	MouseWheelDown
)

// Backend is a drawing surface with an input queue.
type Backend interface {
	// Init prepares the backend. It must be called first.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the surface size in cells.
	Size() (width, height int)

	// SetCell sets one cell. Positions outside the surface are ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at x, y, or an empty cell outside the surface.
	GetCell(x, y int) core.Cell

	// Clear blanks the surface.
	Clear()

	// Show flushes pending changes.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent blocks for the next event. It returns EventNone once the
	// backend has been shut down.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)
}
