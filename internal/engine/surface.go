package engine

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal anchor of drawn text.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Font describes the face used for text drawing and measurement.
type Font struct {
	Size   float64 `json:"size"`
	Family string  `json:"family"`
	Bold   bool    `json:"bold,omitempty"`
}

// CSS renders the font as a Canvas2D font string.
func (f Font) CSS() string {
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	return fmt.Sprintf("%s %gpx %q", weight, f.Size, f.Family)
}

var (
	// InputFont is used by title inputs.
	InputFont = Font{Size: 12, Family: "Malgun Gothic"}
	// TableFont is 9pt, the body font of tables.
	TableFont = Font{Size: 12, Family: "Malgun Gothic"}
	// RulerFont labels ruler ticks.
	RulerFont = Font{Size: 11, Family: "Malgun Gothic"}
)

// Surface is a 2D drawing context in device pixels, shaped after Canvas2D.
// Hosts provide one per mounted canvas; Recorder and the raster package
// provide headless ones.
type Surface interface {
	Size() (width, height float64)
	Resize(width, height float64)

	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	FillText(text string, x, y float64)
	MeasureText(text string) float64

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(width float64)
	LineWidth() float64
	SetFont(font Font)
	SetTextAlign(align Align)
}

// Measurer measures text width in device pixels.
type Measurer interface {
	Measure(font Font, text string) float64
}

// CellMeasurer approximates proportional metrics with terminal cell widths:
// each cell is a fixed fraction of the font size and east asian wide runes
// take two cells.
type CellMeasurer struct {
	// CellRatio is the cell width as a fraction of the font size.
	CellRatio float64
}

func (m CellMeasurer) Measure(font Font, text string) float64 {
	ratio := m.CellRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	return float64(runewidth.StringWidth(text)) * font.Size * ratio
}
