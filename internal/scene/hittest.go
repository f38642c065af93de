package scene

import "math"

// ============================================================
// Hit testing
// ============================================================

const (
	// MinLineHitRadius is half of the 15px invisible hit stroke drawn around
	// thin lines.
	MinLineHitRadius = 7.5
	// ControlHandleRadius is the grab radius of a route control handle.
	ControlHandleRadius = 6.0

	textCharWidth = 0.6
)

// HitTest returns the id of the topmost element under p. Elements are stacked
// freehand, routes, players, text from bottom to top; later elements in a
// collection sit above earlier ones.
func HitTest(s Scene, p Point) (string, bool) {
	for i := len(s.TextAnnotations) - 1; i >= 0; i-- {
		if hitText(s.TextAnnotations[i], p) {
			return s.TextAnnotations[i].ID, true
		}
	}
	if pl, ok := HitPlayer(s, p); ok {
		return pl.ID, true
	}
	for i := len(s.Routes) - 1; i >= 0; i-- {
		r := s.Routes[i]
		if hitPolyline(routePoints(r), p, lineHitRadius(r.StrokeWidth)) {
			return r.ID, true
		}
	}
	for i := len(s.FreehandDrawings) - 1; i >= 0; i-- {
		d := s.FreehandDrawings[i]
		if hitPolyline(FlatPoints(d.Points), p, lineHitRadius(d.StrokeWidth)) {
			return d.ID, true
		}
	}
	return "", false
}

// HitPlayer returns the topmost player under p.
func HitPlayer(s Scene, p Point) (Player, bool) {
	for i := len(s.Players) - 1; i >= 0; i-- {
		pl := s.Players[i]
		if Distance(pl.Position, p) <= pl.Size/2 {
			return pl, true
		}
	}
	return Player{}, false
}

// HitRoutePoint returns the index of the vertex of r within ControlHandleRadius
// of p.
func HitRoutePoint(r Route, p Point) (int, bool) {
	for i := len(r.Points) - 1; i >= 0; i-- {
		if Distance(r.Points[i].Point(), p) <= ControlHandleRadius {
			return i, true
		}
	}
	return -1, false
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// FlatPoints converts x0,y0,x1,y1,... into points. A trailing odd value is
// ignored.
func FlatPoints(flat []float64) []Point {
	pts := make([]Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pts = append(pts, Point{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

func routePoints(r Route) []Point {
	pts := make([]Point, len(r.Points))
	for i, rp := range r.Points {
		pts[i] = rp.Point()
	}
	return pts
}

func lineHitRadius(strokeWidth float64) float64 {
	return math.Max(strokeWidth/2, MinLineHitRadius)
}

func hitText(t TextAnnotation, p Point) bool {
	w := textCharWidth * t.FontSize * float64(len([]rune(t.Text)))
	return p.X >= t.Position.X && p.X <= t.Position.X+w &&
		p.Y >= t.Position.Y && p.Y <= t.Position.Y+t.FontSize
}

func hitPolyline(pts []Point, p Point, radius float64) bool {
	switch len(pts) {
	case 0:
		return false
	case 1:
		return Distance(pts[0], p) <= radius
	}
	for i := 1; i < len(pts); i++ {
		if segmentDistance(pts[i-1], pts[i], p) <= radius {
			return true
		}
	}
	return false
}

func segmentDistance(a, b, p Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(a, p)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(Point{X: a.X + t*dx, Y: a.Y + t*dy}, p)
}
