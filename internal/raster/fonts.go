package raster

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/engine"
)

// FontSet maps engine fonts onto TrueType fonts. Every family resolves to
// the same regular and bold fonts. A FontSet is safe to share; the faces it
// creates are not.
type FontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var (
	defaultOnce  sync.Once
	defaultFonts *FontSet
)

// DefaultFontSet returns the shared set built from the Go fonts.
func DefaultFontSet() *FontSet {
	defaultOnce.Do(func() {
		fs, err := NewFontSet(goregular.TTF, gobold.TTF)
		if err != nil {
			panic(fmt.Sprintf("parse go fonts: %v", err))
		}
		defaultFonts = fs
	})
	return defaultFonts
}

// NewFontSet parses TrueType data. A nil bold uses the regular font.
func NewFontSet(regular, bold []byte) (*FontSet, error) {
	r, err := truetype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	b := r
	if bold != nil {
		if b, err = truetype.Parse(bold); err != nil {
			return nil, fmt.Errorf("parse bold font: %w", err)
		}
	}
	return &FontSet{regular: r, bold: b}, nil
}

// LoadFontSet reads a TrueType file, typically one with CJK coverage, and
// uses it for both weights. An empty path returns the default set.
func LoadFontSet(path string) (*FontSet, error) {
	if path == "" {
		return DefaultFontSet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewFontSet(data, nil)
}

// NewFace creates a face for f rendered at the given scale.
func (fs *FontSet) NewFace(f engine.Font, scale float64) font.Face {
	ttf := fs.regular
	if f.Bold {
		ttf = fs.bold
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    f.Size * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
