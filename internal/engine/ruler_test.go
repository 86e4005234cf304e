package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulerGutter(t *testing.T) {
	tests := []struct {
		name    string
		height  float64
		originY float64
		want    float64
	}{
		{"one digit", 100, 0, 10},
		{"two digits", 600, 0, 15},
		{"grows with pan", 600, 2000, 20},
		{"rounds row index", 190, 0, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.rec.Resize(800, tt.height)
			h.scene.Ruler().SetOrigin(0, tt.originY)
			assert.Equal(t, tt.want, h.scene.Ruler().Gutter())
		})
	}
}

func TestRulerOriginClamps(t *testing.T) {
	h := newHarness(t)
	r := h.scene.Ruler()
	r.SetOrigin(-10, 40)
	x, y := r.Origin()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 40.0, y)
}

func TestPanFromEmptyCanvas(t *testing.T) {
	h := newHarness(t)
	s := h.scene

	s.PointerDown(PointerEvent{X: 400, Y: 300, OnCanvas: true})
	assert.Equal(t, StatePanning, s.State())

	s.PointerMove(PointerEvent{X: 450, Y: 360})
	x, y := s.Ruler().Origin()
	assert.Equal(t, 0.0, x, "dragging right at the origin saturates")
	assert.Equal(t, 0.0, y)

	s.PointerMove(PointerEvent{X: 300, Y: 250})
	x, y = s.Ruler().Origin()
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)

	s.PointerUp(PointerEvent{X: 300, Y: 250})
	assert.Equal(t, StateIdle, s.State())

	s.PointerMove(PointerEvent{X: 0, Y: 0})
	x, _ = s.Ruler().Origin()
	assert.Equal(t, 100.0, x, "moves after release do not pan")
}

func TestPanFromRulerStrip(t *testing.T) {
	h := newHarness(t)
	h.scene.PointerDown(PointerEvent{X: 10, Y: 300, OnCanvas: true})
	assert.Equal(t, StatePanning, h.scene.State())
}

func TestWheel(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	steps := []struct {
		ev    WheelEvent
		wantX float64
		wantY float64
	}{
		{WheelEvent{DeltaY: 3}, 0, 100},
		{WheelEvent{DeltaY: 120}, 0, 200},
		{WheelEvent{DeltaY: 1, Modifiers: Modifiers{Ctrl: true}}, 100, 200},
		{WheelEvent{DeltaY: 1, Modifiers: Modifiers{Meta: true}}, 200, 200},
		{WheelEvent{DeltaY: -5}, 200, 100},
		{WheelEvent{DeltaY: -1}, 200, 0},
		{WheelEvent{DeltaY: -1}, 200, 0},
		{WheelEvent{DeltaY: 0}, 200, 0},
	}
	for i, st := range steps {
		s.Wheel(st.ev)
		x, y := s.Ruler().Origin()
		assert.Equal(t, st.wantX, x, "step %d", i)
		assert.Equal(t, st.wantY, y, "step %d", i)
	}
}

func TestPanMovesRelativeShapes(t *testing.T) {
	h := newHarness(t)
	s := h.scene
	before := s.Transform()
	s.Wheel(WheelEvent{DeltaY: 1})

	x0, y0 := before.ToAbsolute(40, 40)
	x1, y1 := s.Transform().ToAbsolute(40, 40)
	assert.Equal(t, x0, x1)
	assert.Equal(t, y0-WheelStep, y1)
}

func TestRulerPaintsMajorLabels(t *testing.T) {
	h := newHarness(t)
	h.scene.Redraw()
	texts := h.rec.Texts()
	assert.Contains(t, texts, "5")
	assert.Contains(t, texts, "10")
	assert.Contains(t, texts, "25")
	assert.NotContains(t, texts, "4")
}
