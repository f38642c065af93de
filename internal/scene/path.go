package scene

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// SVG path import
// ============================================================

var pathCommandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath converts an SVG path made of M, L, H, V and Z commands into a
// polyline. Repeated coordinate pairs after M or L are treated as implicit
// LineTo commands.
func ParsePath(d string) ([]Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	matches := pathCommandRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands in %q", d)
	}

	var points []Point
	// start is the first point of the current subpath.
	var cur, start Point

	for _, match := range matches {
		cmd := match[1]
		coords, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", cmd, err)
		}

		switch cmd {
		case "M", "L":
			if len(coords) < 2 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s: expected coordinate pairs, got %d values", cmd, len(coords))
			}
			for i := 0; i < len(coords); i += 2 {
				cur = Point{X: coords[i], Y: coords[i+1]}
				if cmd == "M" && i == 0 {
					start = cur
				}
				points = append(points, cur)
			}

		case "m", "l":
			if len(coords) < 2 || len(coords)%2 != 0 {
				return nil, fmt.Errorf("command %s: expected coordinate pairs, got %d values", cmd, len(coords))
			}
			for i := 0; i < len(coords); i += 2 {
				cur = Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				if cmd == "m" && i == 0 {
					start = cur
				}
				points = append(points, cur)
			}

		case "H", "h", "V", "v":
			if len(coords) == 0 {
				return nil, fmt.Errorf("command %s: missing value", cmd)
			}
			for _, v := range coords {
				switch cmd {
				case "H":
					cur.X = v
				case "h":
					cur.X += v
				case "V":
					cur.Y = v
				case "v":
					cur.Y += v
				}
				points = append(points, cur)
			}

		case "Z", "z":
			if len(points) > 0 {
				cur = start
				points = append(points, cur)
			}
		}
	}

	return points, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	if s == "" {
		return nil, nil
	}

	parts := strings.Fields(s)
	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		coords = append(coords, val)
	}
	return coords, nil
}

// RouteFromPath builds a route through the vertices of an SVG path.
func RouteFromPath(d, playerID, color string) (Route, error) {
	pts, err := ParsePath(d)
	if err != nil {
		return Route{}, &ValidationError{Field: "path", Message: err.Error()}
	}
	if len(pts) < MinCommittedRoutePoints {
		return Route{}, invalid("path", "route needs at least %d points", MinCommittedRoutePoints)
	}
	r := NewRoute(playerID, color, pts[0])
	for _, p := range pts[1:] {
		r.Points = append(r.Points, RoutePoint{X: p.X, Y: p.Y})
	}
	return r, nil
}
