package engine

// Viewport supplies the transform currently in effect.
type Viewport interface {
	Transform() Transform
}

// TextStyle overrides the fill color and alignment for a single FillText.
type TextStyle struct {
	Color string
	Align Align
}

// Canvas is the drawing layer shapes paint through. It applies the current
// viewport transform (unless told to ignore it) and snaps every coordinate
// with Crisp before reaching the surface.
type Canvas struct {
	surface  Surface
	viewport Viewport

	fill   string
	stroke string
	font   Font
	align  Align
}

func NewCanvas(surface Surface, viewport Viewport) *Canvas {
	c := &Canvas{surface: surface, viewport: viewport}
	c.ResetState()
	return c
}

// ResetState forgets cached context state. Resizing a surface resets its
// context, so callers do this after every resize.
func (c *Canvas) ResetState() {
	c.fill = ""
	c.stroke = ""
	c.font = Font{}
	c.align = AlignLeft
	c.surface.SetTextAlign(AlignLeft)
	c.surface.SetLineWidth(1)
}

// Surface returns the underlying drawing surface.
func (c *Canvas) Surface() Surface { return c.surface }

// Transform returns the viewport transform, or the identity placement when
// no viewport is attached.
func (c *Canvas) Transform() Transform {
	if c.viewport == nil {
		return Transform{}
	}
	return c.viewport.Transform()
}

func (c *Canvas) ToAbsolute(x, y float64) (float64, float64) {
	return c.Transform().ToAbsolute(x, y)
}

func (c *Canvas) ToRelative(x, y float64) (float64, float64) {
	return c.Transform().ToRelative(x, y)
}

func (c *Canvas) Size() (float64, float64) { return c.surface.Size() }

func (c *Canvas) point(x, y float64, ignoreTransform bool) (float64, float64) {
	if !ignoreTransform {
		x, y = c.ToAbsolute(x, y)
	}
	lw := c.surface.LineWidth()
	return Crisp(x, lw), Crisp(y, lw)
}

func (c *Canvas) Clear() {
	w, h := c.surface.Size()
	c.surface.ClearRect(0, 0, w, h)
}

func (c *Canvas) SetFillStyle(color string) {
	c.fill = color
	c.surface.SetFillStyle(color)
}

func (c *Canvas) SetStrokeStyle(color string) {
	c.stroke = color
	c.surface.SetStrokeStyle(color)
}

func (c *Canvas) SetLineWidth(width float64) { c.surface.SetLineWidth(width) }

func (c *Canvas) SetFont(font Font) {
	c.font = font
	c.surface.SetFont(font)
}

// Measure returns the width of text in the given font. The current font is
// left as it was.
func (c *Canvas) Measure(font Font, text string) float64 {
	if c.font == font {
		return c.surface.MeasureText(text)
	}
	prev := c.font
	c.surface.SetFont(font)
	w := c.surface.MeasureText(text)
	if prev != (Font{}) {
		c.surface.SetFont(prev)
	}
	return w
}

func (c *Canvas) FillRect(x, y, w, h float64, ignoreTransform bool) {
	x, y = c.point(x, y, ignoreTransform)
	c.surface.FillRect(x, y, w, h)
}

func (c *Canvas) StrokeRect(x, y, w, h float64, ignoreTransform bool) {
	x, y = c.point(x, y, ignoreTransform)
	c.surface.StrokeRect(x, y, w, h)
}

func (c *Canvas) BeginPath() { c.surface.BeginPath() }
func (c *Canvas) Stroke()    { c.surface.Stroke() }

func (c *Canvas) MoveTo(x, y float64, ignoreTransform bool) {
	c.surface.MoveTo(c.point(x, y, ignoreTransform))
}

func (c *Canvas) LineTo(x, y float64, ignoreTransform bool) {
	c.surface.LineTo(c.point(x, y, ignoreTransform))
}

// StrokeLine strokes a single segment as its own path.
func (c *Canvas) StrokeLine(x1, y1, x2, y2 float64, ignoreTransform bool) {
	c.BeginPath()
	c.MoveTo(x1, y1, ignoreTransform)
	c.LineTo(x2, y2, ignoreTransform)
	c.Stroke()
}

// FillText draws text with a one-off style; the previous fill color is
// restored afterwards.
func (c *Canvas) FillText(text string, x, y float64, style TextStyle, ignoreTransform bool) {
	x, y = c.point(x, y, ignoreTransform)
	prev := c.fill
	if style.Color != "" {
		c.surface.SetFillStyle(style.Color)
	}
	if style.Align != "" && style.Align != c.align {
		c.align = style.Align
		c.surface.SetTextAlign(style.Align)
	}
	c.surface.FillText(text, x, y)
	if style.Color != "" && prev != "" {
		c.surface.SetFillStyle(prev)
	}
}
