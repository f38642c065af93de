package tool

import (
	"math"

	"playops/internal/scene"
)

// ============================================================
// Viewport
// ============================================================

const (
	ZoomFactor = 1.1
	MinScale   = 0.1
	MaxScale   = 5.0
)

// Viewport is the pan offset and zoom of the canvas. A screen point (sx, sy)
// maps to the scene point ((sx-X)/Scale, (sy-Y)/Scale).
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the unpanned, unzoomed viewport.
var Identity = Viewport{X: 0, Y: 0, Scale: 1}

// ViewportFrom converts a persisted view transform. A missing or degenerate
// transform yields Identity.
func ViewportFrom(vt *scene.ViewTransform) Viewport {
	if vt == nil || vt.Scale <= 0 {
		return Identity
	}
	return Viewport{X: vt.X, Y: vt.Y, Scale: clampScale(vt.Scale)}
}

func (v Viewport) Transform() scene.ViewTransform {
	return scene.ViewTransform{X: v.X, Y: v.Y, Scale: v.Scale}
}

func (v Viewport) ToScene(sx, sy float64) scene.Point {
	return scene.Point{X: (sx - v.X) / v.Scale, Y: (sy - v.Y) / v.Scale}
}

func (v Viewport) ToScreen(p scene.Point) (float64, float64) {
	return p.X*v.Scale + v.X, p.Y*v.Scale + v.Y
}

// Pan translates the view by a raw screen delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// Zoom rescales by one wheel step anchored at the screen point (sx, sy), so
// the scene point under the pointer stays put. A positive deltaY zooms out.
func (v Viewport) Zoom(sx, sy, deltaY float64) Viewport {
	anchor := v.ToScene(sx, sy)

	scale := v.Scale * ZoomFactor
	if deltaY > 0 {
		scale = v.Scale / ZoomFactor
	}
	scale = clampScale(scale)

	return Viewport{
		X:     sx - anchor.X*scale,
		Y:     sy - anchor.Y*scale,
		Scale: scale,
	}
}

func clampScale(s float64) float64 {
	return math.Min(math.Max(s, MinScale), MaxScale)
}
