package render

import (
	"fmt"
	"io"
	"sync"

	"playops/internal/editor/animation"
	"playops/internal/scene"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ============================================================
// PNG Renderer
// ============================================================

// PNGRenderer rasterises scenes with the gg software backend. Coordinates are
// scaled by hand because text drawing ignores the context transform.
type PNGRenderer struct {
	mu      sync.Mutex
	regular *text.FontSource
	bold    *text.FontSource
}

func NewPNGRenderer() (*PNGRenderer, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		regular.Close()
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &PNGRenderer{regular: regular, bold: bold}, nil
}

func (r *PNGRenderer) Close() error {
	r.bold.Close()
	return r.regular.Close()
}

type canvas struct {
	dc     *gg.Context
	sx, sy float64
}

func (c canvas) x(v float64) float64 { return v * c.sx }
func (c canvas) y(v float64) float64 { return v * c.sy }
func (c canvas) d(v float64) float64 { return v * min(c.sx, c.sy) }

// Render writes s as a PNG to w with players at opts.Progress.
func (r *PNGRenderer) Render(w io.Writer, s scene.Scene, opts Options) error {
	if err := s.Validate(); err != nil {
		return err
	}
	width, height := opts.size()

	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(int(width), int(height))
	defer dc.Close()
	c := canvas{dc: dc, sx: width / DefaultWidth, sy: height / DefaultHeight}
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	steps := []func() error{
		func() error { return r.drawSurface(c, s.Sport) },
		func() error { return r.drawFreehand(c, s.FreehandDrawings) },
		func() error { return r.drawRoutes(c, s.Routes) },
		func() error { return r.drawPlayers(c, s, opts.Progress) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("rasterise: %w", err)
		}
	}
	r.drawTexts(c, s.TextAnnotations)

	return dc.EncodePNG(w)
}

func (r *PNGRenderer) drawSurface(c canvas, sport scene.Sport) error {
	sf := surfaceFor(sport)
	w, h := float64(DefaultWidth), float64(DefaultHeight)
	c.dc.ClearWithColor(gg.Hex(sf.Background))

	c.dc.SetHexColor(sf.Lines)
	c.dc.SetLineWidth(c.d(3))
	c.dc.DrawRectangle(c.x(fieldMargin), c.y(fieldMargin), c.x(w-2*fieldMargin), c.y(h-2*fieldMargin))
	if err := c.dc.Stroke(); err != nil {
		return err
	}
	if sf.Midline {
		c.dc.MoveTo(c.x(w/2), c.y(fieldMargin))
		c.dc.LineTo(c.x(w/2), c.y(h-fieldMargin))
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	if sf.Circle {
		c.dc.DrawCircle(c.x(w/2), c.y(h/2), c.d(80))
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PNGRenderer) drawFreehand(c canvas, drawings []scene.FreehandDrawing) error {
	for _, d := range drawings {
		pts := scene.FlatPoints(d.Points)
		if len(pts) < 2 {
			continue
		}
		c.dc.SetHexColor(d.Color)
		c.dc.SetLineWidth(c.d(d.StrokeWidth))
		c.polyline(pts)
		if err := c.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PNGRenderer) drawRoutes(c canvas, routes []scene.Route) error {
	for _, rt := range routes {
		path := routePath(rt)
		if len(path) < 2 {
			continue
		}

		c.dc.SetHexColor(rt.Color)
		c.dc.SetLineWidth(c.d(rt.StrokeWidth))
		if pattern := dashPattern(rt.LineType, rt.StrokeWidth); pattern != nil {
			c.dc.SetDash(c.d(pattern[0]), c.d(pattern[1]))
		} else {
			c.dc.ClearDash()
		}
		c.polyline(path)
		if err := c.dc.Stroke(); err != nil {
			return err
		}
		c.dc.ClearDash()

		if !rt.HasArrow {
			continue
		}
		if tip, left, right, ok := arrowHead(path, rt.StrokeWidth); ok {
			c.polyline([]scene.Point{tip, left, right})
			c.dc.ClosePath()
			if err := c.dc.Fill(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *PNGRenderer) drawPlayers(c canvas, s scene.Scene, progress float64) error {
	positions := animation.Positions(s, progress)
	for i, p := range s.Players {
		x, y := c.x(positions[i].X), c.y(positions[i].Y)

		c.dc.DrawCircle(x, y, c.d(p.Size/2))
		c.dc.SetHexColor(p.TeamColor)
		if err := c.dc.FillPreserve(); err != nil {
			return err
		}
		c.dc.SetHexColor("#ffffff")
		c.dc.SetLineWidth(c.d(2))
		if err := c.dc.Stroke(); err != nil {
			return err
		}

		c.dc.SetFont(r.bold.Face(c.d(numberFontSize(p.Size))))
		c.dc.DrawStringAnchored(p.Number, x, y, 0.5, 0.5)
		if p.Label != "" {
			c.dc.SetHexColor("#000000")
			c.dc.SetFont(r.regular.Face(c.d(labelFontSize)))
			c.dc.DrawStringAnchored(p.Label, x, c.y(positions[i].Y+p.Size/2+4), 0.5, 1)
		}
	}
	return nil
}

func (r *PNGRenderer) drawTexts(c canvas, texts []scene.TextAnnotation) {
	for _, t := range texts {
		source := r.regular
		if t.FontWeight == scene.FontBold {
			source = r.bold
		}
		c.dc.SetHexColor(t.Color)
		c.dc.SetFont(source.Face(c.d(t.FontSize)))
		c.dc.DrawStringAnchored(t.Text, c.x(t.Position.X), c.y(t.Position.Y), 0, 1)
	}
}

func (c canvas) polyline(pts []scene.Point) {
	c.dc.MoveTo(c.x(pts[0].X), c.y(pts[0].Y))
	for _, p := range pts[1:] {
		c.dc.LineTo(c.x(p.X), c.y(p.Y))
	}
}
