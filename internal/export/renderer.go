// Package export renders diagrams to PNG on the server. It runs the same
// scene and table layout as the browser, painted onto a raster surface.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/raster"
)

// MaxPixels bounds the device pixel count of one export.
const MaxPixels = 40_000_000

var ErrTooLarge = errors.New("diagram too large to export")

type Renderer struct {
	fonts  *raster.FontSet
	scale  float64
	margin float64
	log    *slog.Logger
}

func NewRenderer(fonts *raster.FontSet, scale, margin float64, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{fonts: fonts, scale: scale, margin: margin, log: log}
}

// RenderPNG paints d without rulers, framed to its tables plus the margin,
// on a white background.
func (r *Renderer) RenderPNG(w io.Writer, d document.Diagram) error {
	surface := raster.NewSurface(1, 1, r.scale, r.fonts)
	surface.Background = color.White

	scene, err := engine.NewScene(engine.Options{
		Surface:   surface,
		Logger:    r.log,
		HideRuler: true,
	})
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	scene.Load(d)

	extent := scene.Extent()
	width := (extent.Width + 2*r.margin) * r.scale
	height := (extent.Height + 2*r.margin) * r.scale
	if width*height > MaxPixels {
		return fmt.Errorf("%w: %.0fx%.0f", ErrTooLarge, width, height)
	}

	scene.Frame(extent, r.margin)
	scene.Redraw()

	r.log.Debug("diagram rendered", "diagram", d.ID, "tables", len(d.Tables), "width", width, "height", height)
	return surface.EncodePNG(w)
}
