package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"playops/internal/scene"
)

func testScene() scene.Scene {
	p := scene.NewPlayer("7", "#1e40af", scene.Point{X: 300, Y: 400})
	p.ID = "p1"
	r := scene.NewRoute(p.ID, "#dc2626", scene.Point{X: 300, Y: 400})
	r.ID = "r1"
	r.Points = append(r.Points, scene.RoutePoint{X: 700, Y: 400})
	r.LineType = scene.LineDashed
	txt := scene.NewText("Cut <left>", scene.Point{X: 100, Y: 100}, "#000000")
	txt.ID = "t1"

	return scene.New(scene.SportBasketball).WithPlayer(p).WithRoute(r).WithText(txt)
}

func TestSVGRender(t *testing.T) {
	svg, err := NewSVGRenderer().Render(testScene(), Options{Progress: 1})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	wants := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`viewBox="0 0 1200 800"`,
		`width="1200" height="800"`,
		`data-sport="basketball"`,
		`<polyline id="r1" points="300,400 700,400"`,
		`stroke-dasharray="10 5"`,
		`<polygon points="700,400`,
		`<circle cx="700" cy="400" r="20" fill="#1e40af"`,
		`Cut &lt;left&gt;`,
	}
	for _, want := range wants {
		if !strings.Contains(svg, want) {
			t.Errorf("Expected SVG to contain %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("Expected closing svg tag")
	}
}

func TestSVGRenderProgress(t *testing.T) {
	svg, err := NewSVGRenderer().Render(testScene(), Options{Progress: 0.5, Width: 600, Height: 400})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `<circle cx="500" cy="400"`) {
		t.Error("Expected player halfway along the route")
	}
	if !strings.Contains(svg, `width="600" height="400" viewBox="0 0 1200 800"`) {
		t.Error("Expected output size to leave the viewBox unchanged")
	}
}

func TestSVGRenderRejectsInvalidScene(t *testing.T) {
	s := testScene()
	s.Sport = "curling"
	if _, err := NewSVGRenderer().Render(s, Options{}); err == nil {
		t.Error("Expected validation error")
	}
}

func TestRoutePath(t *testing.T) {
	straight := scene.Route{Points: []scene.RoutePoint{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}}
	if got := routePath(straight); len(got) != 3 {
		t.Errorf("Expected 3 points for straight route, got %d", len(got))
	}

	curved := straight
	curved.IsCurved = true
	got := routePath(curved)
	if len(got) != 2*curveSegments+1 {
		t.Fatalf("Expected %d samples, got %d", 2*curveSegments+1, len(got))
	}
	if got[0] != (scene.Point{}) || got[len(got)-1] != (scene.Point{X: 10, Y: 10}) {
		t.Errorf("Expected curve to pass through the end points, got %v and %v", got[0], got[len(got)-1])
	}
	if mid := got[curveSegments]; math.Abs(mid.X-10) > 1e-9 || math.Abs(mid.Y) > 1e-9 {
		t.Errorf("Expected curve to pass through the middle point, got %v", mid)
	}
}

func TestArrowHead(t *testing.T) {
	tip, left, right, ok := arrowHead([]scene.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, 2)
	if !ok {
		t.Fatal("Expected arrow")
	}
	if tip.X != 100 || left.X != 88 || right.X != 88 || left.Y != 6 || right.Y != -6 {
		t.Errorf("Unexpected arrow %v %v %v", tip, left, right)
	}

	if _, _, _, ok := arrowHead([]scene.Point{{X: 5, Y: 5}, {X: 5, Y: 5}}, 2); ok {
		t.Error("Expected no arrow for a zero length segment")
	}
}

func TestDashPattern(t *testing.T) {
	tests := []struct {
		lineType scene.LineType
		want     []float64
	}{
		{scene.LineSolid, nil},
		{scene.LineDashed, []float64{10, 5}},
		{scene.LineDotted, []float64{3, 6}},
	}
	for _, tt := range tests {
		got := dashPattern(tt.lineType, 3)
		if len(got) != len(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.lineType, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: expected %v, got %v", tt.lineType, tt.want, got)
			}
		}
	}
}

func TestPNGRender(t *testing.T) {
	r, err := NewPNGRenderer()
	if err != nil {
		t.Fatalf("Failed to load fonts: %v", err)
	}
	defer r.Close()

	tests := []struct {
		name          string
		opts          Options
		width, height int
	}{
		{"default size", Options{}, DefaultWidth, DefaultHeight},
		{"custom size", Options{Width: 600, Height: 400, Progress: 1}, 600, 400},
		{"clamped size", Options{Width: MaxDimension + 1, Height: 10}, MaxDimension, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Render(&buf, testScene(), tt.opts); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("Output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestPNGRenderDrawsPlayerAtProgress(t *testing.T) {
	r, err := NewPNGRenderer()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	colorAt := func(progress float64, x, y int) [3]uint32 {
		var buf bytes.Buffer
		if err := r.Render(&buf, testScene(), Options{Progress: progress}); err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatal(err)
		}
		cr, cg, cb, _ := img.At(x, y).RGBA()
		return [3]uint32{cr >> 8, cg >> 8, cb >> 8}
	}

	team := [3]uint32{0x1e, 0x40, 0xaf}
	near := func(a, b [3]uint32) bool {
		for i := range a {
			if d := int(a[i]) - int(b[i]); d < -2 || d > 2 {
				return false
			}
		}
		return true
	}

	if got := colorAt(0, 288, 400); !near(got, team) {
		t.Errorf("Expected team color at start, got %v", got)
	}
	if got := colorAt(1, 288, 400); near(got, team) {
		t.Error("Expected player to have left the start position")
	}
	if got := colorAt(1, 688, 400); !near(got, team) {
		t.Errorf("Expected team color at route end, got %v", got)
	}
}
