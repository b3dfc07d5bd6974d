package geom

import "math"

const (
	// Step is the quantization increment for all domain values.
	Step = 0.05

	// GridUnit is the pixel grid the widget snaps to, and the unit the
	// container safe area is floored to.
	GridUnit = 20
)

// Point is a pixel position relative to the container's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a pixel extent.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Empty reports whether either dimension is zero or negative. Pixel events
// against an empty container cannot be normalized.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is a rectangle in domain space. X and Y locate the bottom-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the rectangle as (x0, x1, y0, y1).
func (r Rect) Bounds() (x0, x1, y0, y1 float64) {
	return r.X, r.X + r.Width, r.Y, r.Y + r.Height
}

// Quantize rounds every field to the nearest multiple of step.
func (r Rect) Quantize(step float64) Rect {
	return Rect{
		X:      Quantize(r.X, step),
		Y:      Quantize(r.Y, step),
		Width:  Quantize(r.Width, step),
		Height: Quantize(r.Height, step),
	}
}

// Clamp applies the interactive-edit policy: positions are capped at 1 with
// no lower bound, sizes are confined to [0, 1].
func (r Rect) Clamp() Rect {
	return Rect{
		X:      ClampPosition(r.X),
		Y:      ClampPosition(r.Y),
		Width:  ClampSize(r.Width),
		Height: ClampSize(r.Height),
	}
}

// Quantize rounds v to the nearest multiple of step. Halves round toward
// positive infinity on both sides of zero.
//
// When 1/step is a whole number the multiple is produced by division, which
// yields the float64 closest to the exact decimal (0.15 rather than
// 0.15000000000000002). Negative zero is folded to zero.
func Quantize(v, step float64) float64 {
	if step <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	n := math.Floor(v/step + 0.5)
	var q float64
	if inv := 1 / step; math.Abs(inv-math.Round(inv)) < 1e-9 {
		q = n / math.Round(inv)
	} else {
		q = n * step
	}
	if q == 0 {
		return 0
	}
	return q
}

// ClampPosition caps a position at 1. Items may sit partly off-grid on the
// low side, so there is no lower bound.
func ClampPosition(v float64) float64 {
	return math.Min(1, v)
}

// ClampSize confines a size to [0, 1].
func ClampSize(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ToDomain maps widget pixel geometry to a quantized domain rectangle.
// The Y axis is flipped: pixel Y is measured from the top edge of the item,
// domain Y from the bottom edge.
func ToDomain(pos Point, size Size, container Size, step float64) Rect {
	w := size.W / container.W
	h := size.H / container.H
	r := Rect{
		X:      pos.X / container.W,
		Y:      1 - pos.Y/container.H - h,
		Width:  w,
		Height: h,
	}
	return r.Quantize(step)
}

// ToPixel maps a domain rectangle back to widget pixel geometry. The result
// is used for rendering only and is never persisted.
func ToPixel(r Rect, container Size) (Point, Size) {
	pos := Point{
		X: r.X * container.W,
		Y: (1 - r.Y - r.Height) * container.H,
	}
	size := Size{
		W: r.Width * container.W,
		H: r.Height * container.H,
	}
	return pos, size
}

// SnapContainer floors a measured container to a multiple of unit on both
// axes.
func SnapContainer(measured Size, unit float64) Size {
	if unit <= 0 {
		return measured
	}
	return Size{
		W: math.Max(0, math.Floor(measured.W/unit)*unit),
		H: math.Max(0, math.Floor(measured.H/unit)*unit),
	}
}

// SnapPixel rounds a pixel value to the nearest multiple of unit, halves
// toward positive infinity.
func SnapPixel(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	s := math.Floor(v/unit+0.5) * unit
	if s == 0 {
		return 0
	}
	return s
}

// SnapPoint applies [SnapPixel] to both coordinates.
func SnapPoint(p Point, unit float64) Point {
	return Point{X: SnapPixel(p.X, unit), Y: SnapPixel(p.Y, unit)}
}

// SnapSize applies [SnapPixel] to both dimensions.
func SnapSize(s Size, unit float64) Size {
	return Size{W: SnapPixel(s.W, unit), H: SnapPixel(s.H, unit)}
}
