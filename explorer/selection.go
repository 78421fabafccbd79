package explorer

import (
	"math"

	"github.com/hupe1980/boardmap/model"
)

// DefaultTolerance is the default click radius in pixels.
const DefaultTolerance = 8.0

// defaultMargin pads the data bounds on every side, as a fraction of the extent.
const defaultMargin = 0.05

// Pixel is a position in screen space, origin at the top left.
type Pixel struct {
	X float64
	Y float64
}

// Viewport maps projection space onto a Width x Height pixel canvas.
type Viewport struct {
	Width  float64
	Height float64
	// Bounds is the data rectangle shown on the canvas.
	Bounds Bounds
	// Tolerance is the click radius in pixels. If 0, DefaultTolerance applies.
	Tolerance float64
}

// Viewport returns a width x height viewport over the session's data bounds
// with a small margin. It depends only on the package, never on a filter,
// so a route keeps its pixel position across filter changes.
func (s *Session) Viewport(width, height float64) Viewport {
	b := s.bounds
	mx, my := b.Width()*defaultMargin, b.Height()*defaultMargin
	return Viewport{
		Width:  width,
		Height: height,
		Bounds: Bounds{MinX: b.MinX - mx, MinY: b.MinY - my, MaxX: b.MaxX + mx, MaxY: b.MaxY + my},
	}
}

// ToPixel maps a projected point to the canvas.
func (v Viewport) ToPixel(p model.Point) Pixel {
	return Pixel{
		X: (p.X - v.Bounds.MinX) / v.Bounds.Width() * v.Width,
		Y: (v.Bounds.MaxY - p.Y) / v.Bounds.Height() * v.Height,
	}
}

// ToData maps a canvas position back to projection space.
func (v Viewport) ToData(px Pixel) model.Point {
	return model.Point{
		X: v.Bounds.MinX + px.X/v.Width*v.Bounds.Width(),
		Y: v.Bounds.MaxY - px.Y/v.Height*v.Bounds.Height(),
	}
}

func (v Viewport) tolerance() float64 {
	if v.Tolerance > 0 {
		return v.Tolerance
	}
	return DefaultTolerance
}

// ResolveSelection returns the visible route nearest to px, provided it lies
// within the viewport's tolerance. Equidistant routes resolve to the smallest
// ID. It reports false when nothing is close enough.
func ResolveSelection(visible []VisibleRoute, vp Viewport, px Pixel) (string, bool) {
	tol := vp.tolerance()
	best := ""
	bestDist := math.Inf(1)
	for i := range visible {
		p := vp.ToPixel(visible[i].Point)
		d := math.Hypot(p.X-px.X, p.Y-px.Y)
		if d > tol {
			continue
		}
		if d < bestDist || (d == bestDist && visible[i].ID < best) {
			best, bestDist = visible[i].ID, d
		}
	}
	return best, best != ""
}

// ResolveSelection is ResolveSelection reported to the session's metrics observer.
func (s *Session) ResolveSelection(visible []VisibleRoute, vp Viewport, px Pixel) (string, bool) {
	id, ok := ResolveSelection(visible, vp, px)
	s.metrics.OnSelect(ok)
	return id, ok
}
