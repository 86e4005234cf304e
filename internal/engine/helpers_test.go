package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeOverlay struct {
	visible    bool
	box        Rect
	value      string
	background string
	shows      int
	moves      int
	listeners  map[int]func()
	next       int
}

func newFakeOverlay() *fakeOverlay {
	return &fakeOverlay{listeners: map[int]func(){}}
}

func (o *fakeOverlay) Show(box Rect, value, background string) {
	o.visible = true
	o.box = box
	o.value = value
	o.background = background
	o.shows++
}

func (o *fakeOverlay) Move(box Rect) {
	o.box = box
	o.moves++
}

func (o *fakeOverlay) Hide()         { o.visible = false }
func (o *fakeOverlay) Value() string { return o.value }

func (o *fakeOverlay) OnKey(fn func()) func() {
	id := o.next
	o.next++
	o.listeners[id] = fn
	return func() { delete(o.listeners, id) }
}

// typeText appends text and fires a keystroke per call, the way a browser
// input fires keydown before its value changes.
func (o *fakeOverlay) typeText(text string) {
	for _, fn := range o.listeners {
		fn()
	}
	o.value += text
}

type fakeSink struct {
	focused bool
	focuses int
}

func (s *fakeSink) Focus() {
	s.focused = true
	s.focuses++
}

func (s *fakeSink) Blur() { s.focused = false }

type fixedContainer struct{ w, h float64 }

func (c fixedContainer) Bounds() (float64, float64) { return c.w, c.h }

// measureFunc adapts a per-rune width table to Measurer.
type measureFunc func(r rune) float64

func (f measureFunc) Measure(_ Font, text string) float64 {
	total := 0.0
	for _, r := range text {
		total += f(r)
	}
	return total
}

type harness struct {
	scene   *Scene
	rec     *Recorder
	sched   *ManualScheduler
	overlay *fakeOverlay
	sink    *fakeSink
	clip    *MemoryClipboard
}

// newHarness builds an 800x600 scene. With CellMeasurer at 12px every
// ASCII glyph is 6px wide, the gutter is 15 and the transform adds (35, 20).
func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, CellMeasurer{})
}

func newHarnessWith(t *testing.T, m Measurer) *harness {
	t.Helper()
	h := &harness{
		rec:     NewRecorder(800, 600, m),
		sched:   NewManualScheduler(),
		overlay: newFakeOverlay(),
		sink:    &fakeSink{},
		clip:    &MemoryClipboard{},
	}
	s, err := NewScene(Options{
		Surface:   h.rec,
		Container: fixedContainer{w: 1024, h: 768},
		Scheduler: h.sched,
		Clipboard: h.clip,
		Overlay:   h.overlay,
		Sink:      h.sink,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	h.scene = s
	return h
}

// input creates an absolute widget at (x, y) so device and local
// coordinates coincide.
func (h *harness) input(value string, x, y float64) *TextInput {
	w := NewTextInput(h.scene, value)
	w.Draw(x, y, false)
	return w
}

// key delivers a keydown and lets its reconciliation run.
func (h *harness) key(key string, mods Modifiers) {
	h.scene.KeyDown(KeyEvent{Key: key, Modifiers: mods})
	h.sched.Flush()
}

func (h *harness) click(x, y float64) {
	h.scene.PointerDown(PointerEvent{X: x, Y: y, OnCanvas: true})
	h.scene.PointerUp(PointerEvent{X: x, Y: y, OnCanvas: true})
}
