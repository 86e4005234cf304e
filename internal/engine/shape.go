package engine

// HiddenPosition parks a shape off-surface until it is first placed.
const HiddenPosition = -99999

// Shape is anything the Scene paints and hit-tests. The set of variants is
// closed: *Table, *TextInput and *Ruler.
type Shape interface {
	Base() *ShapeBase
	Paint()
	// Contains reports whether a device point hits the shape.
	Contains(x, y float64) bool
	Dispose()

	isShape()
}

// ShapeBase holds what every shape has: placement, paint order, visibility,
// owned children and the drawing primitives.
type ShapeBase struct {
	X, Y float64
	// Relative shapes live in logical coordinates that move with the pan
	// origin; absolute ones are pinned to the device surface.
	Relative bool
	ZIndex   int
	Visible  bool
	Children []Shape

	canvas *Canvas
}

func newShapeBase(c *Canvas, zIndex int, relative bool) ShapeBase {
	return ShapeBase{ZIndex: zIndex, Relative: relative, Visible: true, canvas: c}
}

func (b *ShapeBase) Base() *ShapeBase { return b }

// SetRelative switches an absolute shape to logical coordinates, rebasing
// X and Y so it stays where it is on screen. Relative shapes stay relative.
func (b *ShapeBase) SetRelative(relative bool) {
	if !relative || b.Relative {
		return
	}
	b.X, b.Y = b.canvas.ToRelative(b.X, b.Y)
	b.Relative = true
}

// toLocal converts a device point into this shape's coordinate space.
func (b *ShapeBase) toLocal(x, y float64) (float64, float64) {
	if b.Relative {
		return b.canvas.ToRelative(x, y)
	}
	return x, y
}

// toDevice converts a point in this shape's coordinate space to device pixels.
func (b *ShapeBase) toDevice(x, y float64) (float64, float64) {
	if b.Relative {
		return b.canvas.ToAbsolute(x, y)
	}
	return x, y
}

func (b *ShapeBase) fillRect(x, y, w, h float64) {
	b.canvas.FillRect(x, y, w, h, !b.Relative)
}

func (b *ShapeBase) strokeRect(x, y, w, h float64) {
	b.canvas.StrokeRect(x, y, w, h, !b.Relative)
}

func (b *ShapeBase) moveTo(x, y float64) { b.canvas.MoveTo(x, y, !b.Relative) }
func (b *ShapeBase) lineTo(x, y float64) { b.canvas.LineTo(x, y, !b.Relative) }

func (b *ShapeBase) strokeLine(x1, y1, x2, y2 float64) {
	b.canvas.StrokeLine(x1, y1, x2, y2, !b.Relative)
}

func (b *ShapeBase) fillText(text string, x, y float64, style TextStyle) {
	b.canvas.FillText(text, x, y, style, !b.Relative)
}
