package engine

import "math"

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Transform maps logical diagram coordinates onto the device surface.
// The logical origin sits just inside the rulers: Thickness on both axes,
// plus the label gutter on the horizontal axis, shifted by the pan origin.
type Transform struct {
	OriginX   float64
	OriginY   float64
	Thickness float64
	Gutter    float64
}

// ToAbsolute converts logical coordinates to device coordinates.
func (t Transform) ToAbsolute(x, y float64) (float64, float64) {
	return x + t.Thickness + t.Gutter - t.OriginX, y + t.Thickness - t.OriginY
}

// ToRelative converts device coordinates to logical coordinates.
func (t Transform) ToRelative(x, y float64) (float64, float64) {
	return x - t.Thickness - t.Gutter + t.OriginX, y - t.Thickness + t.OriginY
}

// Crisp snaps a coordinate so a stroke of the given width lands on whole
// device pixels. Odd widths snap to half pixels, even widths to integers.
func Crisp(pixel, lineWidth float64) float64 {
	half := lineWidth / 2
	if math.Mod(lineWidth, 2) != 0 {
		if pixel == math.Trunc(pixel) {
			return pixel - half
		}
		return math.Round(pixel+half) - half
	}
	return math.Round(pixel)
}

// Snap rounds v to the nearest multiple of step.
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
