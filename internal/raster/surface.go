// Package raster paints scenes into images. Surface implements the engine's
// drawing surface on a gg context so the same paint code that drives the
// browser canvas can produce PNG exports on the server.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
)

type faceKey struct {
	size float64
	bold bool
}

type segment struct {
	x, y float64
	move bool
}

// Surface is an engine.Surface that rasterizes into an RGBA image. Scale
// multiplies every coordinate, so a scale of 2 yields a 2x image of the
// same logical size.
type Surface struct {
	dc     *gg.Context
	fonts  *FontSet
	faces  map[faceKey]font.Face
	width  float64
	height float64
	scale  float64

	// Background fills cleared areas. Transparent when nil.
	Background color.Color

	fill      color.Color
	stroke    color.Color
	lineWidth float64
	font      engine.Font
	align     engine.Align
	path      []segment
}

// NewSurface creates a surface of the given logical size. A nil font set
// falls back to the Go fonts.
func NewSurface(width, height, scale float64, fonts *FontSet) *Surface {
	if scale <= 0 {
		scale = 1
	}
	if fonts == nil {
		fonts = DefaultFontSet()
	}
	s := &Surface{
		fonts:     fonts,
		faces:     map[faceKey]font.Face{},
		scale:     scale,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
		font:      engine.InputFont,
		align:     engine.AlignLeft,
	}
	s.Resize(width, height)
	return s
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// Resize replaces the backing image. Its content is lost.
func (s *Surface) Resize(width, height float64) {
	s.width, s.height = math.Max(width, 1), math.Max(height, 1)
	s.dc = gg.NewContext(int(math.Ceil(s.width*s.scale)), int(math.Ceil(s.height*s.scale)))
	s.path = nil
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	bg := s.Background
	if bg == nil {
		bg = color.Transparent
	}
	if x <= 0 && y <= 0 && x+w >= s.width && y+h >= s.height {
		s.dc.SetColor(bg)
		s.dc.Clear()
		return
	}
	s.dc.DrawRectangle(x*s.scale, y*s.scale, w*s.scale, h*s.scale)
	s.dc.SetColor(bg)
	s.dc.Fill()
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x*s.scale, y*s.scale, w*s.scale, h*s.scale)
	s.dc.SetColor(s.fill)
	s.dc.Fill()
}

func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x*s.scale, y*s.scale, w*s.scale, h*s.scale)
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.lineWidth * s.scale)
	s.dc.Stroke()
}

// BeginPath, MoveTo and LineTo buffer the path on the surface itself so that
// rect fills in between do not consume it.
func (s *Surface) BeginPath() { s.path = s.path[:0] }

func (s *Surface) MoveTo(x, y float64) {
	s.path = append(s.path, segment{x: x, y: y, move: true})
}

func (s *Surface) LineTo(x, y float64) {
	s.path = append(s.path, segment{x: x, y: y})
}

func (s *Surface) Stroke() {
	if len(s.path) == 0 {
		return
	}
	s.dc.NewSubPath()
	for _, seg := range s.path {
		if seg.move {
			s.dc.MoveTo(seg.x*s.scale, seg.y*s.scale)
		} else {
			s.dc.LineTo(seg.x*s.scale, seg.y*s.scale)
		}
	}
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.lineWidth * s.scale)
	s.dc.Stroke()
}

func (s *Surface) FillText(text string, x, y float64) {
	if text == "" {
		return
	}
	s.dc.SetFontFace(s.face(s.scale))
	s.dc.SetColor(s.fill)
	ax := 0.0
	switch s.align {
	case engine.AlignCenter:
		ax = 0.5
	case engine.AlignRight:
		ax = 1
	}
	s.dc.DrawStringAnchored(text, x*s.scale, y*s.scale, ax, 0)
}

// MeasureText returns the advance of text in logical pixels.
func (s *Surface) MeasureText(text string) float64 {
	return float64(font.MeasureString(s.face(1), text)) / 64
}

func (s *Surface) face(scale float64) font.Face {
	key := faceKey{size: s.font.Size * scale, bold: s.font.Bold}
	if f, ok := s.faces[key]; ok {
		return f
	}
	f := s.fonts.NewFace(s.font, scale)
	s.faces[key] = f
	return f
}

func (s *Surface) SetFillStyle(c string)           { s.fill = ParseColor(c) }
func (s *Surface) SetStrokeStyle(c string)         { s.stroke = ParseColor(c) }
func (s *Surface) SetLineWidth(width float64)      { s.lineWidth = width }
func (s *Surface) LineWidth() float64              { return s.lineWidth }
func (s *Surface) SetFont(font engine.Font)        { s.font = font }
func (s *Surface) SetTextAlign(align engine.Align) { s.align = align }

// Image returns the rendered image.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the rendered image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

var namedColors = map[string]color.Color{
	"black":       color.Black,
	"white":       color.White,
	"red":         color.RGBA{R: 0xff, A: 0xff},
	"transparent": color.Transparent,
}

// ParseColor understands the CSS forms the engine uses: named colors,
// #rgb, #rrggbb and rgb(r, g, b). Anything else is black.
func ParseColor(css string) color.Color {
	css = strings.ToLower(strings.TrimSpace(css))
	if c, ok := namedColors[css]; ok {
		return c
	}
	if strings.HasPrefix(css, "#") {
		c, err := colorful.Hex(css)
		if err != nil {
			return color.Black
		}
		return c
	}
	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(css, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
	}
	return color.Black
}

func channel(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
