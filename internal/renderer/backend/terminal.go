package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pylight/internal/renderer/core"
)

// Terminal implements Backend with tcell.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates a backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a backend on an in-memory tcell screen of the given
// size, for tests and headless rendering.
func NewSimulation(width, height int) (*Terminal, tcell.SimulationScreen) {
	screen := tcell.NewSimulationScreen("UTF-8")
	t := &Terminal{screen: screen}
	if err := t.Init(); err == nil {
		screen.SetSize(width, height)
	}
	return t, screen
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cell.IsContinuation() {
		return
	}
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return core.Cell{
		Rune:  mainc,
		Width: core.RuneWidth(mainc),
		Style: convertTcellStyle(style),
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// PollEvent skips tcell events with no Event equivalent, so EventNone is
// only returned after Shutdown.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		if e := convertEvent(ev); e.Type != EventNone {
			return e
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		_ = t.screen.PostEvent(tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod)))
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// convertTcellStyle converts tcell.Style back to our Style.
func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()

	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	if attrs&tcell.AttrBold != 0 {
		s.Attributes |= core.AttrBold
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes |= core.AttrDim
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attributes |= core.AttrItalic
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attributes |= core.AttrUnderline
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attributes |= core.AttrReverse
	}
	return s
}

// convertTcellColor converts tcell.Color to our Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	if tc >= tcell.ColorValid && tc < tcell.ColorIsRGB {
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	}
	r, g, b := tc.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

var keyMap = map[tcell.Key]Key{
	tcell.KeyRune:   KeyRune,
	tcell.KeyEscape: KeyEscape,
	tcell.KeyEnter:  KeyEnter,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyCtrlC:  KeyCtrlC,
	tcell.KeyCtrlQ:  KeyCtrlQ,

	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	if k == KeyBackspace {
		return tcell.KeyBackspace2
	}
	for tk, key := range keyMap {
		if key == k {
			return tk
		}
	}
	return tcell.KeyNUL
}

func convertMod(m tcell.ModMask) ModMask {
	var mod ModMask
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	return mod
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var mod tcell.ModMask
	if m.Has(ModShift) {
		mod |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		mod |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		mod |= tcell.ModAlt
	}
	return mod
}

func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	case b&tcell.Button1 != 0:
		return MouseLeft
	}
	return MouseNone
}
