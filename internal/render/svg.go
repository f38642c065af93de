package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"playops/internal/editor/animation"
	"playops/internal/scene"
)

// ============================================================
// SVG Renderer
// ============================================================

type SVGRenderer struct{}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{}
}

// Render draws s with players at opts.Progress. The viewBox always spans the
// editor canvas; Width and Height only set the output size.
func (r *SVGRenderer) Render(s scene.Scene, opts Options) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	width, height := opts.size()

	var elements []string
	elements = append(elements, r.renderSurface(s.Sport)...)
	elements = append(elements, r.renderFreehand(s.FreehandDrawings)...)
	elements = append(elements, r.renderRoutes(s.Routes)...)
	elements = append(elements, r.renderPlayers(s, opts.Progress)...)
	elements = append(elements, r.renderTexts(s.TextAnnotations)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %d %d">`,
		formatFloat(width), formatFloat(height), DefaultWidth, DefaultHeight))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Layers
// ============================================================

func (r *SVGRenderer) renderSurface(sport scene.Sport) []string {
	sf := surfaceFor(sport)
	w, h := float64(DefaultWidth), float64(DefaultHeight)

	out := []string{
		fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s" data-sport="%s"/>`,
			DefaultWidth, DefaultHeight, sf.Background, sport),
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="3"/>`,
			formatFloat(fieldMargin), formatFloat(fieldMargin),
			formatFloat(w-2*fieldMargin), formatFloat(h-2*fieldMargin), sf.Lines),
	}
	if sf.Midline {
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3"/>`,
			formatFloat(w/2), formatFloat(fieldMargin), formatFloat(w/2), formatFloat(h-fieldMargin), sf.Lines))
	}
	if sf.Circle {
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="80" fill="none" stroke="%s" stroke-width="3"/>`,
			formatFloat(w/2), formatFloat(h/2), sf.Lines))
	}
	return out
}

func (r *SVGRenderer) renderFreehand(drawings []scene.FreehandDrawing) []string {
	var out []string
	for _, d := range drawings {
		pts := scene.FlatPoints(d.Points)
		if len(pts) < 2 {
			continue
		}
		out = append(out, fmt.Sprintf(`<polyline id="%s" points="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`,
			html.EscapeString(d.ID), formatPoints(pts), html.EscapeString(d.Color), formatFloat(d.StrokeWidth)))
	}
	return out
}

func (r *SVGRenderer) renderRoutes(routes []scene.Route) []string {
	var out []string
	for _, rt := range routes {
		path := routePath(rt)
		if len(path) < 2 {
			continue
		}

		dash := ""
		if pattern := dashPattern(rt.LineType, rt.StrokeWidth); pattern != nil {
			dash = fmt.Sprintf(` stroke-dasharray="%s %s"`, formatFloat(pattern[0]), formatFloat(pattern[1]))
		}
		color := html.EscapeString(rt.Color)
		out = append(out, fmt.Sprintf(`<polyline id="%s" points="%s" fill="none" stroke="%s" stroke-width="%s"%s stroke-linecap="round" stroke-linejoin="round"/>`,
			html.EscapeString(rt.ID), formatPoints(path), color, formatFloat(rt.StrokeWidth), dash))

		if !rt.HasArrow {
			continue
		}
		if tip, left, right, ok := arrowHead(path, rt.StrokeWidth); ok {
			out = append(out, fmt.Sprintf(`<polygon points="%s" fill="%s"/>`,
				formatPoints([]scene.Point{tip, left, right}), color))
		}
	}
	return out
}

func (r *SVGRenderer) renderPlayers(s scene.Scene, progress float64) []string {
	positions := animation.Positions(s, progress)

	var out []string
	for i, p := range s.Players {
		pos := positions[i]
		cx, cy := formatFloat(pos.X), formatFloat(pos.Y)
		out = append(out, fmt.Sprintf(`<g id="%s">`, html.EscapeString(p.ID)))
		out = append(out, fmt.Sprintf(`  <circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#ffffff" stroke-width="2"/>`,
			cx, cy, formatFloat(p.Size/2), html.EscapeString(p.TeamColor)))
		out = append(out, fmt.Sprintf(`  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" font-weight="bold" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`,
			cx, cy, formatFloat(numberFontSize(p.Size)), html.EscapeString(p.Number)))
		if p.Label != "" {
			out = append(out, fmt.Sprintf(`  <text x="%s" y="%s" font-family="sans-serif" font-size="%s" fill="#000000" text-anchor="middle" dominant-baseline="hanging">%s</text>`,
				cx, formatFloat(pos.Y+p.Size/2+4), formatFloat(labelFontSize), html.EscapeString(p.Label)))
		}
		out = append(out, `</g>`)
	}
	return out
}

func (r *SVGRenderer) renderTexts(texts []scene.TextAnnotation) []string {
	var out []string
	for _, t := range texts {
		out = append(out, fmt.Sprintf(`<text id="%s" x="%s" y="%s" font-family="sans-serif" font-size="%s" font-weight="%s" fill="%s" dominant-baseline="hanging">%s</text>`,
			html.EscapeString(t.ID), formatFloat(t.Position.X), formatFloat(t.Position.Y),
			formatFloat(t.FontSize), t.FontWeight, html.EscapeString(t.Color), html.EscapeString(t.Text)))
	}
	return out
}

// ============================================================
// Helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoints(pts []scene.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	return strings.Join(parts, " ")
}
