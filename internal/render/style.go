package render

import (
	"math"

	"playops/internal/scene"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 800
	MaxDimension  = 4096

	fieldMargin   = 40.0
	arrowLength   = 10.0
	arrowWidth    = 10.0
	curveSegments = 12
	labelFontSize = 12.0
)

// Options controls a single render.
type Options struct {
	// Progress is the animation fraction players are drawn at.
	Progress float64
	Width    int
	Height   int
}

func (o Options) size() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return float64(min(w, MaxDimension)), float64(min(h, MaxDimension))
}

// ============================================================
// Surfaces
// ============================================================

type surface struct {
	Background string
	Lines      string
	Midline    bool
	Circle     bool
}

var surfaces = map[scene.Sport]surface{
	scene.SportBasketball: {Background: "#d9a066", Lines: "#ffffff", Midline: true, Circle: true},
	scene.SportFootball:   {Background: "#3f8f3f", Lines: "#ffffff", Midline: true},
	scene.SportSoccer:     {Background: "#4caf50", Lines: "#ffffff", Midline: true, Circle: true},
	scene.SportVolleyball: {Background: "#f0b27a", Lines: "#ffffff", Midline: true},
	scene.SportHockey:     {Background: "#eef6fb", Lines: "#c0392b", Midline: true, Circle: true},
	scene.SportBaseball:   {Background: "#6aa84f", Lines: "#ffffff"},
	scene.SportCustom:     {Background: "#ffffff", Lines: "#cccccc"},
}

func surfaceFor(s scene.Sport) surface {
	if sf, ok := surfaces[s]; ok {
		return sf
	}
	return surfaces[scene.SportCustom]
}

// ============================================================
// Geometry
// ============================================================

// dashPattern returns on/off lengths for a line type, nil for solid.
func dashPattern(t scene.LineType, strokeWidth float64) []float64 {
	switch t {
	case scene.LineDashed:
		return []float64{10, 5}
	case scene.LineDotted:
		return []float64{strokeWidth, strokeWidth * 2}
	}
	return nil
}

// routePath returns the polyline drawn for r. Curved routes are sampled from
// a Catmull-Rom spline through the route points.
func routePath(r scene.Route) []scene.Point {
	pts := make([]scene.Point, len(r.Points))
	for i, p := range r.Points {
		pts[i] = p.Point()
	}
	if !r.IsCurved || len(pts) < 3 {
		return pts
	}

	out := make([]scene.Point, 0, (len(pts)-1)*curveSegments+1)
	out = append(out, pts[0])
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1, p2 := pts[i], pts[i+1]
		p3 := pts[min(i+2, len(pts)-1)]
		for s := 1; s <= curveSegments; s++ {
			out = append(out, catmullRom(p0, p1, p2, p3, float64(s)/curveSegments))
		}
	}
	return out
}

func catmullRom(p0, p1, p2, p3 scene.Point, t float64) scene.Point {
	t2, t3 := t*t, t*t*t
	f := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (c-a)*t + (2*a-5*b+4*c-d)*t2 + (3*b-a-3*c+d)*t3)
	}
	return scene.Point{X: f(p0.X, p1.X, p2.X, p3.X), Y: f(p0.Y, p1.Y, p2.Y, p3.Y)}
}

// arrowHead returns the tip and the two base corners of the arrow drawn at the
// end of path. ok is false when the last segment has no direction.
func arrowHead(path []scene.Point, strokeWidth float64) (tip, left, right scene.Point, ok bool) {
	if len(path) < 2 {
		return
	}
	tip = path[len(path)-1]
	from := path[len(path)-2]
	dx, dy := tip.X-from.X, tip.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length

	l := arrowLength + strokeWidth
	w := (arrowWidth + strokeWidth) / 2
	bx, by := tip.X-ux*l, tip.Y-uy*l
	left = scene.Point{X: bx - uy*w, Y: by + ux*w}
	right = scene.Point{X: bx + uy*w, Y: by - ux*w}
	return tip, left, right, true
}

func numberFontSize(playerSize float64) float64 {
	return playerSize * 0.4
}
