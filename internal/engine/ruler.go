package engine

import (
	"math"
	"strconv"
)

const (
	RulerThickness = 20
	RulerZIndex    = 100
	// WheelStep is how far one wheel tick pans, in logical units.
	WheelStep = 100

	majorTickEvery = 5
)

// Ruler draws the coordinate rulers along the top and left edges and owns
// the pan origin. It is pinned to the device surface.
type Ruler struct {
	ShapeBase
	scene *Scene

	Background string
	LineColor  string
	LabelColor string

	originX, originY float64

	panning                    bool
	startOriginX, startOriginY float64
	startX, startY             float64
}

func NewRuler(s *Scene) *Ruler {
	return &Ruler{
		ShapeBase:  newShapeBase(s.canvas, RulerZIndex, false),
		scene:      s,
		Background: "#212122",
		LineColor:  "#404040",
		LabelColor: "#999999",
	}
}

func (r *Ruler) isShape() {}

// Origin returns the pan origin in logical units.
func (r *Ruler) Origin() (float64, float64) { return r.originX, r.originY }

// SetOrigin moves the pan origin. Negative components saturate at zero.
func (r *Ruler) SetOrigin(x, y float64) {
	r.originX = max(x, 0)
	r.originY = max(y, 0)
}

// Gutter is the width reserved left of the vertical ruler for labels. It
// grows with the digit count of the largest visible row index.
func (r *Ruler) Gutter() float64 {
	_, h := r.canvas.Size()
	last := int(math.Round((h + r.originY) / r.scene.gridSize))
	return 5 + float64(len(strconv.Itoa(last)))*5
}

// Transform returns the logical-to-device mapping for the current origin.
func (r *Ruler) Transform() Transform {
	return Transform{
		OriginX:   r.originX,
		OriginY:   r.originY,
		Thickness: RulerThickness,
		Gutter:    r.Gutter(),
	}
}

// Contains reports whether a device point is on either ruler strip.
func (r *Ruler) Contains(x, y float64) bool {
	return x < RulerThickness+r.Gutter() || y < RulerThickness
}

// BeginPan snapshots the origin and pointer so every later move is measured
// from the drag start.
func (r *Ruler) BeginPan(ev PointerEvent) {
	r.panning = true
	r.startOriginX, r.startOriginY = r.originX, r.originY
	r.startX, r.startY = ev.X, ev.Y
}

// Pan moves the origin opposite to the pointer's travel since BeginPan.
func (r *Ruler) Pan(ev PointerEvent) {
	if !r.panning {
		return
	}
	r.SetOrigin(r.startOriginX+(r.startX-ev.X), r.startOriginY+(r.startY-ev.Y))
}

func (r *Ruler) EndPan() {
	r.panning = false
}

// Wheel scrolls one step per tick, vertically unless the command modifier
// is held.
func (r *Ruler) Wheel(ev WheelEvent) {
	if ev.DeltaY == 0 {
		return
	}
	step := float64(WheelStep)
	if ev.DeltaY < 0 {
		step = -step
	}
	if ev.Command() {
		r.SetOrigin(r.originX+step, r.originY)
	} else {
		r.SetOrigin(r.originX, r.originY+step)
	}
}

func (r *Ruler) Paint() {
	if !r.Visible {
		return
	}
	c := r.canvas
	w, h := c.Size()
	t := float64(RulerThickness)
	left := r.Gutter()
	g := r.scene.gridSize
	label := TextStyle{Color: r.LabelColor, Align: AlignCenter}

	c.SetFont(RulerFont)
	c.SetFillStyle(r.Background)
	c.SetStrokeStyle(r.LineColor)
	c.SetLineWidth(1)
	r.fillRect(0, 0, w, t)
	r.fillRect(0, 0, t+left, h)

	c.BeginPath()
	for i := max(1, int(r.originX/g)); float64(i)*g < w+r.originX; i++ {
		x := float64(i)*g + t + left - r.originX
		if x <= t+left {
			continue
		}
		if i%majorTickEvery == 0 {
			r.moveTo(x, t-5)
			r.fillText(strconv.Itoa(i), x, t-10, label)
		} else {
			r.moveTo(x, t-10)
		}
		r.lineTo(x, t)
	}
	label.Align = AlignRight
	for i := max(1, int(r.originY/g)); float64(i)*g < h+r.originY; i++ {
		y := float64(i)*g + t - r.originY
		if y <= t {
			continue
		}
		if i%majorTickEvery == 0 {
			r.fillText(strconv.Itoa(i), left+10, y+3, label)
			r.moveTo(t+left-5, y)
		} else {
			r.moveTo(t+left-10, y)
		}
		r.lineTo(t+left, y)
	}
	r.moveTo(t+left, 0)
	r.lineTo(t+left, h)
	r.moveTo(0, t)
	r.lineTo(w, t)
	c.Stroke()
	r.fillRect(0, 0, t+left, t)
}

func (r *Ruler) Dispose() {
	r.panning = false
}
