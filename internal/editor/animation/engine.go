package animation

import (
	"math"

	"playops/internal/scene"
)

// ============================================================
// Interpolation
// ============================================================

// PlayerPosition is the animated position of one player.
type PlayerPosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// RouteFor returns the first route bound to the player.
func RouteFor(s scene.Scene, playerID string) (scene.Route, bool) {
	for _, r := range s.Routes {
		if r.PlayerID == playerID {
			return r, true
		}
	}
	return scene.Route{}, false
}

// Position returns where p is at progress t. Every segment of the bound route
// gets an equal share of time regardless of its length. Players without a
// route of at least two points stay on their static position.
func Position(s scene.Scene, p scene.Player, t float64) scene.Point {
	r, ok := RouteFor(s, p.ID)
	if !ok {
		return p.Position
	}
	return along(r.Points, p.Position, t)
}

// Positions evaluates every player of s at progress t, in player order.
func Positions(s scene.Scene, t float64) []PlayerPosition {
	bound := make(map[string]scene.Route, len(s.Routes))
	for _, r := range s.Routes {
		if r.PlayerID == "" {
			continue
		}
		if _, seen := bound[r.PlayerID]; !seen {
			bound[r.PlayerID] = r
		}
	}

	out := make([]PlayerPosition, len(s.Players))
	for i, p := range s.Players {
		pos := p.Position
		if r, ok := bound[p.ID]; ok {
			pos = along(r.Points, p.Position, t)
		}
		out[i] = PlayerPosition{ID: p.ID, X: pos.X, Y: pos.Y}
	}
	return out
}

func along(points []scene.RoutePoint, fallback scene.Point, t float64) scene.Point {
	n := len(points)
	if n < 2 {
		return fallback
	}

	t = clamp01(t)
	scaled := t * float64(n-1)
	idx := int(math.Floor(scaled))
	if idx >= n-1 {
		return points[n-1].Point()
	}
	frac := scaled - float64(idx)

	a, b := points[idx], points[idx+1]
	return scene.Point{
		X: lerp(a.X, b.X, frac),
		Y: lerp(a.Y, b.Y, frac),
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Min(math.Max(t, 0), 1)
}
