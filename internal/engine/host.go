package engine

import "strings"

// Modifiers are the modifier keys held during an input event.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
	Alt   bool `json:"alt"`
}

// Command reports whether the platform command modifier is held.
func (m Modifiers) Command() bool { return m.Ctrl || m.Meta }

// PointerEvent is a mouse event in device coordinates of the canvas.
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Modifiers
	// OnCanvas is false for events whose target is not the canvas. A table
	// being added hides and cannot be dropped there.
	OnCanvas bool `json:"onCanvas"`
}

// WheelEvent is a single wheel tick.
type WheelEvent struct {
	DeltaY float64 `json:"deltaY"`
	Modifiers
}

// KeyEvent is a keydown. Key follows KeyboardEvent.key naming.
type KeyEvent struct {
	Key string `json:"key"`
	Modifiers
}

// ClipboardShortcut reports whether the key is a copy, cut or paste chord.
// Hosts must let the browser act on these so it fires the clipboard event.
func (e KeyEvent) ClipboardShortcut() bool {
	switch {
	case e.Command():
		k := strings.ToLower(e.Key)
		return k == "c" || k == "x" || k == "v" || e.Key == "Insert"
	case e.Shift:
		return e.Key == "Insert" || e.Key == "Delete"
	}
	return false
}

type CompositionPhase int

const (
	CompositionStart CompositionPhase = iota
	CompositionUpdate
	CompositionEnd
)

// CompositionEvent is an IME composition event from the host's text sink.
type CompositionEvent struct {
	Phase CompositionPhase `json:"phase"`
	Data  string           `json:"data"`
}

// Clipboard holds text for copy, cut and paste.
type Clipboard interface {
	ReadText() string
	WriteText(text string)
}

// MemoryClipboard is an in-process clipboard. Browser hosts fill it from
// paste events and drain it into copy events.
type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) ReadText() string      { return c.text }
func (c *MemoryClipboard) WriteText(text string) { c.text = text }

// Overlay is the external text-entry surface a Table binds over an Editable.
type Overlay interface {
	// Show places the overlay over box (device pixels), fills it with value,
	// focuses it and puts the caret at the end.
	Show(box Rect, value, background string)
	// Move repositions a visible overlay.
	Move(box Rect)
	Hide()
	Value() string
	// OnKey registers a keystroke listener and returns its detach func.
	OnKey(fn func()) (detach func())
}

// TextSink is the host's hidden keyboard target. Focusing it routes
// keystrokes and IME composition to the canvas.
type TextSink interface {
	Focus()
	Blur()
}

// Container reports the layout box the surface should fill.
type Container interface {
	Bounds() (width, height float64)
}
