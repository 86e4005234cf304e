package engine

import (
	"encoding/json"
)

// DrawCommand represents a single drawing operation recorded from a paint pass.
// A list of these can be replayed on any Canvas2D context.
type DrawCommand struct {
	Op        string    `json:"op"`                  // "clear", "fillRect", "strokeRect", "path", "text"
	Rect      *Rect     `json:"rect,omitempty"`      // For rect ops
	Points    []float64 `json:"points,omitempty"`    // Path as x0,y0,x1,y1...
	Moves     []int     `json:"moves,omitempty"`     // Point indexes where a moveTo begins
	Text      string    `json:"text,omitempty"`      // For text ops
	X         float64   `json:"x,omitempty"`         // Text anchor
	Y         float64   `json:"y,omitempty"`         // Text baseline
	Align     Align     `json:"align,omitempty"`     // Text alignment
	Font      string    `json:"font,omitempty"`      // CSS font for text ops
	Fill      string    `json:"fill,omitempty"`      // Fill color
	Stroke    string    `json:"stroke,omitempty"`    // Stroke color
	LineWidth float64   `json:"lineWidth,omitempty"` // Stroke width
}

// Recorder is a Surface that keeps every operation as a DrawCommand instead of
// rasterizing. Text metrics come from the supplied Measurer.
type Recorder struct {
	measurer Measurer
	width    float64
	height   float64

	fill      string
	stroke    string
	lineWidth float64
	font      Font
	align     Align

	path     []float64
	moves    []int
	commands []DrawCommand
}

// NewRecorder creates a recorder of the given size. A nil measurer falls back
// to CellMeasurer.
func NewRecorder(width, height float64, m Measurer) *Recorder {
	if m == nil {
		m = CellMeasurer{}
	}
	return &Recorder{
		measurer:  m,
		width:     width,
		height:    height,
		fill:      "#000000",
		stroke:    "#000000",
		lineWidth: 1,
		font:      InputFont,
		align:     AlignLeft,
	}
}

func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

func (r *Recorder) Resize(width, height float64) {
	r.width = width
	r.height = height
}

// ClearRect records a clear. Clearing the whole surface starts a new frame.
func (r *Recorder) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= r.width && y+h >= r.height {
		r.commands = nil
	}
	r.commands = append(r.commands, DrawCommand{Op: "clear", Rect: &Rect{X: x, Y: y, Width: w, Height: h}})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.commands = append(r.commands, DrawCommand{Op: "fillRect", Rect: &Rect{X: x, Y: y, Width: w, Height: h}, Fill: r.fill})
}

func (r *Recorder) StrokeRect(x, y, w, h float64) {
	r.commands = append(r.commands, DrawCommand{
		Op:        "strokeRect",
		Rect:      &Rect{X: x, Y: y, Width: w, Height: h},
		Stroke:    r.stroke,
		LineWidth: r.lineWidth,
	})
}

func (r *Recorder) BeginPath() {
	r.path = nil
	r.moves = nil
}

func (r *Recorder) MoveTo(x, y float64) {
	r.moves = append(r.moves, len(r.path)/2)
	r.path = append(r.path, x, y)
}

func (r *Recorder) LineTo(x, y float64) {
	r.path = append(r.path, x, y)
}

func (r *Recorder) Stroke() {
	if len(r.path) == 0 {
		return
	}
	r.commands = append(r.commands, DrawCommand{
		Op:        "path",
		Points:    append([]float64(nil), r.path...),
		Moves:     append([]int(nil), r.moves...),
		Stroke:    r.stroke,
		LineWidth: r.lineWidth,
	})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.commands = append(r.commands, DrawCommand{
		Op:    "text",
		Text:  text,
		X:     x,
		Y:     y,
		Align: r.align,
		Font:  r.font.CSS(),
		Fill:  r.fill,
	})
}

func (r *Recorder) MeasureText(text string) float64 {
	return r.measurer.Measure(r.font, text)
}

func (r *Recorder) SetFillStyle(color string)   { r.fill = color }
func (r *Recorder) SetStrokeStyle(color string) { r.stroke = color }
func (r *Recorder) SetLineWidth(width float64)  { r.lineWidth = width }
func (r *Recorder) LineWidth() float64          { return r.lineWidth }
func (r *Recorder) SetFont(font Font)           { r.font = font }
func (r *Recorder) SetTextAlign(align Align)    { r.align = align }

// Commands returns the commands recorded since the last Reset.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops every recorded command.
func (r *Recorder) Reset() {
	r.commands = nil
}

// Texts returns the strings drawn by text ops, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.commands {
		if c.Op == "text" {
			out = append(out, c.Text)
		}
	}
	return out
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}

// Tee paints onto a primary surface and records the same operations.
// Measurement and size come from the primary.
type Tee struct {
	Surface
	rec *Recorder
}

// NewTee wraps primary with a recorder.
func NewTee(primary Surface) *Tee {
	w, h := primary.Size()
	return &Tee{Surface: primary, rec: NewRecorder(w, h, nil)}
}

func (t *Tee) Resize(width, height float64) {
	t.Surface.Resize(width, height)
	t.rec.Resize(t.Surface.Size())
}

func (t *Tee) ClearRect(x, y, w, h float64) {
	t.Surface.ClearRect(x, y, w, h)
	t.rec.ClearRect(x, y, w, h)
}

func (t *Tee) FillRect(x, y, w, h float64) {
	t.Surface.FillRect(x, y, w, h)
	t.rec.FillRect(x, y, w, h)
}

func (t *Tee) StrokeRect(x, y, w, h float64) {
	t.Surface.StrokeRect(x, y, w, h)
	t.rec.StrokeRect(x, y, w, h)
}

func (t *Tee) BeginPath() {
	t.Surface.BeginPath()
	t.rec.BeginPath()
}

func (t *Tee) MoveTo(x, y float64) {
	t.Surface.MoveTo(x, y)
	t.rec.MoveTo(x, y)
}

func (t *Tee) LineTo(x, y float64) {
	t.Surface.LineTo(x, y)
	t.rec.LineTo(x, y)
}

func (t *Tee) Stroke() {
	t.Surface.Stroke()
	t.rec.Stroke()
}

func (t *Tee) FillText(text string, x, y float64) {
	t.Surface.FillText(text, x, y)
	t.rec.FillText(text, x, y)
}

func (t *Tee) SetFillStyle(color string) {
	t.Surface.SetFillStyle(color)
	t.rec.SetFillStyle(color)
}

func (t *Tee) SetStrokeStyle(color string) {
	t.Surface.SetStrokeStyle(color)
	t.rec.SetStrokeStyle(color)
}

func (t *Tee) SetLineWidth(width float64) {
	t.Surface.SetLineWidth(width)
	t.rec.SetLineWidth(width)
}

func (t *Tee) SetFont(font Font) {
	t.Surface.SetFont(font)
	t.rec.SetFont(font)
}

func (t *Tee) SetTextAlign(align Align) {
	t.Surface.SetTextAlign(align)
	t.rec.SetTextAlign(align)
}

// Commands returns the recorded operations of the current frame.
func (t *Tee) Commands() []DrawCommand { return t.rec.Commands() }
