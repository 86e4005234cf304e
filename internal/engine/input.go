package engine

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBlinkInterval is the caret blink period.
const DefaultBlinkInterval = 600 * time.Millisecond

// InputState is the focus state of a TextInput.
type InputState int

const (
	InputBlurred InputState = iota
	InputFocused
	InputComposing
)

func (s InputState) String() string {
	switch s {
	case InputFocused:
		return "FOCUSED"
	case InputComposing:
		return "COMPOSING"
	default:
		return "BLURRED"
	}
}

// Selection is a pair of character offsets. Start is the anchor and End the
// active end, so Start > End is a selection made right to left.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Bounds returns the selection ordered low to high.
func (s Selection) Bounds() (int, int) {
	if s.Start > s.End {
		return s.End, s.Start
	}
	return s.Start, s.End
}

func (s Selection) Empty() bool { return s.Start == s.End }

// Padding around the text box, in pixels.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// TextInput is a single-line text field drawn entirely on the canvas. It
// handles caret, selection, clipboard and IME composition itself.
type TextInput struct {
	ShapeBase
	scene *Scene

	Align     Align
	Padding   Padding
	MinWidth  float64
	Height    float64
	Font      Font
	TextColor string

	value []rune
	sel   Selection
	state InputState

	caretVisible bool
	compStart    int
	compLen      int
	underline    bool

	widths []float64
	width  float64

	pressed  bool
	blink    *Pending
	pending  []*Pending
	detach   func()
	disposed bool
}

// NewTextInput creates a widget owned by the scene. It listens for pointer
// and keyboard input until disposed.
func NewTextInput(s *Scene, value string) *TextInput {
	w := &TextInput{
		ShapeBase: newShapeBase(s.canvas, 20, true),
		scene:     s,
		Align:     AlignLeft,
		Padding:   Padding{Top: 2, Right: 5, Bottom: 2, Left: 5},
		MinWidth:  100,
		Height:    14,
		Font:      InputFont,
		TextColor: "#ffffff",
		value:     []rune(value),
	}
	w.detach = s.listen(w)
	return w
}

func (w *TextInput) isShape() {}

func (w *TextInput) Value() string { return string(w.value) }

// SetValue replaces the text without going through the edit path.
func (w *TextInput) SetValue(v string) {
	w.value = []rune(v)
	w.invalidate()
	w.clamp()
}

func (w *TextInput) Selection() Selection { return w.sel }

// SetSelection sets both ends, clamped to the value.
func (w *TextInput) SetSelection(start, end int) {
	w.sel = Selection{Start: start, End: end}
	w.clamp()
}

func (w *TextInput) State() InputState { return w.state }
func (w *TextInput) Focused() bool     { return w.state != InputBlurred }
func (w *TextInput) Disposed() bool    { return w.disposed }

// CaretVisible reports the blink phase of the caret.
func (w *TextInput) CaretVisible() bool { return w.caretVisible }

// SelectedText returns the selected substring, if any.
func (w *TextInput) SelectedText() (string, bool) {
	lo, hi := w.sel.Bounds()
	if lo == hi {
		return "", false
	}
	return string(w.value[lo:hi]), true
}

// Width is the measured text width, floored at MinWidth.
func (w *TextInput) Width() float64 {
	w.measure()
	return w.width
}

// Box returns the outline of the field in the widget's own coordinates.
func (w *TextInput) Box() Rect {
	width := w.Padding.Left + w.Width() + w.Padding.Right
	height := w.Padding.Top + w.Height + w.Padding.Bottom
	x := w.X
	if w.Align == AlignRight {
		x = w.X - width
	}
	return Rect{X: x, Y: w.Y, Width: width, Height: height}
}

// Contains reports whether a device point falls strictly inside the box.
func (w *TextInput) Contains(px, py float64) bool {
	x, y := w.toLocal(px, py)
	b := w.Box()
	return x > b.X && x < b.X+b.Width && y > b.Y && y < b.Y+b.Height
}

// Draw places the widget at (x, y) and paints it. Right-aligned widgets
// treat x as their right edge.
func (w *TextInput) Draw(x, y float64, relative bool) {
	w.X, w.Y = x, y
	w.Relative = relative
	w.Paint()
}

// --- Focus ---

// Focus claims the scene's focus slot and starts the caret blinking.
func (w *TextInput) Focus() {
	if w.disposed {
		return
	}
	w.scene.focus.Claim(w)
	if w.state == InputBlurred {
		w.state = InputFocused
	}
	w.underline = false
	if w.scene.sink != nil {
		w.scene.sink.Focus()
	}
	w.resetBlink()
}

// Blur gives up focus if this widget holds it.
func (w *TextInput) Blur() {
	w.scene.focus.Release(w)
}

// blur is called by the FocusOwner when focus moves away.
func (w *TextInput) blur() {
	w.state = InputBlurred
	w.pressed = false
	w.underline = false
	w.compLen = 0
	w.caretVisible = false
	w.blink.Cancel()
	w.blink = nil
	w.cancelPending()
	w.scene.dropBuffered(w)
}

func (w *TextInput) resetBlink() {
	w.blink.Cancel()
	w.caretVisible = true
	w.blink = w.scene.sched.Every(w.scene.blinkInterval, func() {
		w.caretVisible = !w.caretVisible
		w.scene.Redraw()
	})
}

// --- Editing ---

// TypeString inserts text at the selection, replacing any selected range,
// and collapses the caret after the inserted text.
func (w *TextInput) TypeString(text string) {
	lo, hi := w.sel.Bounds()
	ins := []rune(text)
	next := make([]rune, 0, len(w.value)-(hi-lo)+len(ins))
	next = append(next, w.value[:lo]...)
	next = append(next, ins...)
	next = append(next, w.value[hi:]...)
	w.value = next
	caret := lo + len(ins)
	w.sel = Selection{Start: caret, End: caret}
	w.edited()
}

// SelectAll selects the whole value.
func (w *TextInput) SelectAll() {
	w.sel = Selection{Start: 0, End: len(w.value)}
}

// Copy puts the selection on the scene clipboard.
func (w *TextInput) Copy() (string, bool) {
	text, ok := w.SelectedText()
	if ok && w.scene.clipboard != nil {
		w.scene.clipboard.WriteText(text)
	}
	return text, ok
}

// Cut copies the selection and deletes it.
func (w *TextInput) Cut() (string, bool) {
	text, ok := w.Copy()
	if ok {
		w.TypeString("")
	}
	return text, ok
}

// Paste inserts text as if typed.
func (w *TextInput) Paste(text string) {
	w.TypeString(text)
}

func (w *TextInput) deleteBackward() {
	if !w.sel.Empty() {
		w.TypeString("")
		return
	}
	if w.sel.End == 0 {
		return
	}
	at := w.sel.End - 1
	w.value = append(w.value[:at], w.value[at+1:]...)
	w.sel = Selection{Start: at, End: at}
	w.edited()
}

func (w *TextInput) deleteForward() {
	if !w.sel.Empty() {
		w.TypeString("")
		return
	}
	at := w.sel.End
	if at >= len(w.value) {
		return
	}
	w.value = append(w.value[:at], w.value[at+1:]...)
	w.edited()
}

// moveRight and moveLeft follow native text fields: without shift a
// non-empty selection first collapses to its right or left edge.
func (w *TextInput) moveRight(extend bool) {
	if w.sel.Empty() || extend {
		w.sel.End = min(w.sel.End+1, len(w.value))
		if !extend {
			w.sel.Start = w.sel.End
		}
		return
	}
	_, hi := w.sel.Bounds()
	w.sel = Selection{Start: hi, End: hi}
}

func (w *TextInput) moveLeft(extend bool) {
	if w.sel.Empty() || extend {
		w.sel.End = max(w.sel.End-1, 0)
		if !extend {
			w.sel.Start = w.sel.End
		}
		return
	}
	lo, _ := w.sel.Bounds()
	w.sel = Selection{Start: lo, End: lo}
}

func (w *TextInput) jumpTo(offset int, extend bool) {
	w.sel.End = offset
	if !extend {
		w.sel.Start = offset
	}
}

func (w *TextInput) edited() {
	w.invalidate()
	w.clamp()
	if w.Focused() {
		w.resetBlink()
	}
}

func (w *TextInput) clamp() {
	n := len(w.value)
	w.sel.Start = min(max(w.sel.Start, 0), n)
	w.sel.End = min(max(w.sel.End, 0), n)
	w.compStart = min(max(w.compStart, 0), n)
	w.compLen = min(max(w.compLen, 0), n-w.compStart)
}

// --- Keyboard and composition ---

// HandleKey captures a keydown for the focused widget and schedules its
// reconciliation, so composition or clipboard events the host delivers
// after the keydown are seen first.
func (w *TextInput) HandleKey(ev KeyEvent) bool {
	if w.disposed || !w.Focused() {
		return false
	}
	w.scheduleReconcile(&ev)
	return true
}

func (w *TextInput) scheduleReconcile(ev *KeyEvent) {
	var p *Pending
	p = w.scene.sched.Defer("reconcile-key", func() {
		w.dropPending(p)
		w.reconcile(ev)
	})
	w.pending = append(w.pending, p)
}

func (w *TextInput) hasPending() bool {
	for _, p := range w.pending {
		if p.Active() {
			return true
		}
	}
	return false
}

func (w *TextInput) dropPending(p *Pending) {
	live := w.pending[:0]
	for _, q := range w.pending {
		if q != p && q.Active() {
			live = append(live, q)
		}
	}
	w.pending = live
}

func (w *TextInput) cancelPending() {
	for _, p := range w.pending {
		p.Cancel()
	}
	w.pending = nil
}

// reconcile applies a captured keydown against what the host delivered after
// it. A composition swallows the key; pastes are inserted after it.
func (w *TextInput) reconcile(ev *KeyEvent) {
	events := w.scene.drainBuffered(w)
	composing := false
	for _, b := range events {
		composing = composing || !b.paste
	}
	if !composing && ev != nil {
		w.applyKey(*ev)
	}
	for _, b := range events {
		if !w.Focused() {
			break
		}
		if b.paste {
			w.Paste(b.text)
		} else {
			w.applyComposition(b.composition)
		}
	}
	w.scene.Redraw()
}

func (w *TextInput) applyKey(ev KeyEvent) {
	switch {
	case ev.Ctrl && ev.Key == "Insert":
		w.Copy()
		return
	case ev.Shift && ev.Key == "Delete":
		w.Cut()
		return
	case ev.Shift && ev.Key == "Insert":
		// the host's paste event carries the text
		return
	}
	if ev.Command() {
		switch strings.ToLower(ev.Key) {
		case "a":
			w.SelectAll()
		case "c":
			w.Copy()
		case "x":
			w.Cut()
		}
		return
	}

	switch ev.Key {
	case "ArrowRight":
		w.moveRight(ev.Shift)
	case "ArrowLeft":
		w.moveLeft(ev.Shift)
	case "Home":
		w.jumpTo(0, ev.Shift)
	case "End":
		w.jumpTo(len(w.value), ev.Shift)
	case "Backspace":
		w.deleteBackward()
	case "Delete":
		w.deleteForward()
	case "Escape":
		w.Blur()
		return
	default:
		if ev.Alt || utf8.RuneCountInString(ev.Key) != 1 {
			return
		}
		w.TypeString(ev.Key)
		return
	}
	w.resetBlink()
}

// applyComposition edits the reserved composition region. Start reserves it
// with a placeholder space, updates replace it with the composed text and end
// commits the final text.
func (w *TextInput) applyComposition(ev CompositionEvent) {
	switch ev.Phase {
	case CompositionStart:
		w.beginComposition()
	case CompositionUpdate:
		if w.state != InputComposing {
			w.beginComposition()
		}
		w.replaceComposition(ev.Data)
		w.underline = w.compLen > 0
	case CompositionEnd:
		if w.state == InputComposing {
			if ev.Data != "" || w.compLen > 0 {
				w.replaceComposition(ev.Data)
			}
			w.state = InputFocused
		}
		w.underline = false
		w.compLen = 0
	}
}

func (w *TextInput) beginComposition() {
	w.TypeString(" ")
	w.compStart = w.sel.End - 1
	w.compLen = 1
	w.state = InputComposing
}

func (w *TextInput) replaceComposition(data string) {
	w.clamp()
	ins := []rune(data)
	end := w.compStart + w.compLen
	next := make([]rune, 0, len(w.value)-w.compLen+len(ins))
	next = append(next, w.value[:w.compStart]...)
	next = append(next, ins...)
	next = append(next, w.value[end:]...)
	w.value = next
	w.compLen = len(ins)
	caret := w.compStart + w.compLen
	w.sel = Selection{Start: caret, End: caret}
	w.edited()
}

// --- Pointer ---

// Press starts a pointer selection at a device point inside the widget.
func (w *TextInput) Press(ev PointerEvent) {
	if w.disposed {
		return
	}
	wasFocused := w.Focused()
	if !wasFocused {
		w.sel = Selection{}
	}
	w.Focus()
	off := w.OffsetAt(ev.X, ev.Y)
	if ev.Shift && wasFocused {
		w.sel.End = off
	} else {
		w.sel = Selection{Start: off, End: off}
	}
	w.pressed = true
	w.scene.Redraw()
}

func (w *TextInput) pointerMove(ev PointerEvent) {
	if !w.pressed || !w.Focused() {
		return
	}
	off := w.OffsetAt(ev.X, ev.Y)
	if off != w.sel.End {
		w.sel.End = off
		w.scene.Redraw()
	}
}

func (w *TextInput) pointerUp(PointerEvent) {
	w.pressed = false
}

func (w *TextInput) keyDown(ev KeyEvent) bool {
	return w.HandleKey(ev)
}

// OffsetAt maps a device point to the nearest character boundary using the
// measured width of each glyph: a point past a glyph's midpoint lands after it.
func (w *TextInput) OffsetAt(px, py float64) int {
	w.measure()
	x, _ := w.toLocal(px, py)
	x -= w.textLeft()
	cum := 0.0
	for i, gw := range w.widths {
		if x < cum+gw/2 {
			return i
		}
		cum += gw
	}
	return len(w.value)
}

// --- Measurement and paint ---

func (w *TextInput) invalidate() {
	w.widths = nil
}

func (w *TextInput) measure() {
	if w.widths != nil && len(w.widths) == len(w.value) {
		return
	}
	w.widths = make([]float64, len(w.value))
	total := 0.0
	for i, r := range w.value {
		w.widths[i] = w.canvas.Measure(w.Font, string(r))
		total += w.widths[i]
	}
	w.width = max(total, w.MinWidth)
}

func (w *TextInput) textWidth() float64 {
	total := 0.0
	for _, gw := range w.widths {
		total += gw
	}
	return total
}

func (w *TextInput) textLeft() float64 {
	if w.Align == AlignRight {
		return w.X - w.Padding.Right - w.textWidth()
	}
	return w.X + w.Padding.Left
}

// caretX is the x coordinate of a character boundary.
func (w *TextInput) caretX(offset int) float64 {
	x := w.textLeft()
	for i := 0; i < offset && i < len(w.widths); i++ {
		x += w.widths[i]
	}
	return x
}

func (w *TextInput) Paint() {
	if !w.Visible {
		return
	}
	w.measure()
	c := w.canvas
	c.SetFont(w.Font)

	anchor := w.X + w.Padding.Left
	if w.Align == AlignRight {
		anchor = w.X - w.Padding.Right
	}
	baseline := w.Y + w.Padding.Top + 10
	text := string(w.value)

	if !w.Focused() {
		w.fillText(text, anchor, baseline, TextStyle{Color: w.TextColor, Align: w.Align})
		return
	}

	box := w.Box()
	c.SetFillStyle("#ffffff")
	c.SetStrokeStyle("#000000")
	w.fillRect(box.X, box.Y, box.Width, box.Height)
	w.strokeRect(box.X, box.Y, box.Width, box.Height)
	w.fillText(text, anchor, baseline, TextStyle{Color: "#000000", Align: w.Align})

	top := w.Y + w.Padding.Top
	lo, hi := w.sel.Bounds()
	if lo != hi {
		x1, x2 := w.caretX(lo), w.caretX(hi)
		c.SetFillStyle("#254a8d")
		w.fillRect(x1, top, x2-x1, w.Height)
		w.fillText(string(w.value[lo:hi]), x1, baseline, TextStyle{Color: "#ffffff", Align: AlignLeft})
	} else if w.caretVisible {
		x := w.caretX(w.sel.End)
		c.SetStrokeStyle("#000000")
		w.strokeLine(x, top, x, top+w.Height)
	}

	if w.underline && w.compLen > 0 {
		x1, x2 := w.caretX(w.compStart), w.caretX(w.compStart+w.compLen)
		c.SetStrokeStyle("#000000")
		w.strokeLine(x1+1, top+w.Height, x2-1, top+w.Height)
	}
}

// Dispose detaches the widget from the scene and stops its timers. It is
// safe to call more than once.
func (w *TextInput) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	if w.detach != nil {
		w.detach()
		w.detach = nil
	}
	w.blink.Cancel()
	w.blink = nil
	w.cancelPending()
	w.scene.dropBuffered(w)
	w.scene.focus.Release(w)
}
