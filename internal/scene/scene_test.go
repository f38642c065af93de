package scene

import (
	"encoding/json"
	"errors"
	"testing"
)

func sampleScene() Scene {
	s := New(SportBasketball)
	s = s.WithPlayer(Player{ID: "p1", Number: "1", TeamColor: "#FF6B00", Position: Point{X: 100, Y: 100}, Size: 40})
	s = s.WithPlayer(Player{ID: "p2", Number: "2", TeamColor: "#1E3A5F", Position: Point{X: 300, Y: 100}, Size: 40})
	s = s.WithRoute(Route{
		ID:       "r1",
		PlayerID: "p1",
		Points: []RoutePoint{
			{X: 100, Y: 100},
			{X: 200, Y: 100, ControlPoint1: &Point{X: 150, Y: 50}},
		},
		Color:       "#FFFFFF",
		StrokeWidth: 3,
		LineType:    LineDashed,
		HasArrow:    true,
	})
	s = s.WithFreehand(FreehandDrawing{ID: "f1", Points: []float64{0, 0, 10, 10}, Color: "#000000", StrokeWidth: 2})
	s = s.WithText(TextAnnotation{ID: "t1", Text: "Screen", Position: Point{X: 400, Y: 400}, FontSize: 16, Color: "#000000", FontWeight: FontBold})
	return s
}

func TestNewScene(t *testing.T) {
	s := New(SportHockey)

	if s.Sport != SportHockey {
		t.Errorf("Expected sport hockey, got %s", s.Sport)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty scene, got %d elements", s.Len())
	}
	if s.AnimationKeyframes == nil || len(s.AnimationKeyframes) != 0 {
		t.Errorf("Expected empty keyframes, got %v", s.AnimationKeyframes)
	}
	if s.ViewTransform == nil || *s.ViewTransform != (ViewTransform{X: 0, Y: 0, Scale: 1}) {
		t.Errorf("Expected identity view transform, got %+v", s.ViewTransform)
	}
}

func TestConstructorDefaults(t *testing.T) {
	p := NewPlayer("7", "#FF6B00", Point{X: 1, Y: 2})
	if p.Size != DefaultPlayerSize || p.ID == "" {
		t.Errorf("Unexpected player defaults: %+v", p)
	}

	r := NewRoute("", "#FFFFFF", Point{X: 5, Y: 6})
	if r.StrokeWidth != 3 || r.LineType != LineSolid || !r.HasArrow || r.IsCurved {
		t.Errorf("Unexpected route defaults: %+v", r)
	}
	if len(r.Points) != 1 || r.Points[0].Point() != (Point{X: 5, Y: 6}) {
		t.Errorf("Expected route seeded with start point, got %+v", r.Points)
	}

	d := NewFreehand("#000000", Point{X: 1, Y: 1})
	if d.StrokeWidth != 2 || len(d.Points) != 2 {
		t.Errorf("Unexpected freehand defaults: %+v", d)
	}

	txt := NewText("Go", Point{}, "#000000")
	if txt.FontSize != 16 || txt.FontWeight != FontNormal {
		t.Errorf("Unexpected text defaults: %+v", txt)
	}

	if NewID() == NewID() {
		t.Error("Expected unique ids")
	}
}

func TestSceneRoundTrip(t *testing.T) {
	s := sampleScene()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !Equal(s, decoded) {
		t.Errorf("Round trip changed the scene:\nwant %+v\ngot  %+v", s, decoded)
	}

	r, ok := decoded.Route("r1")
	if !ok {
		t.Fatal("Expected decoded scene to index route r1")
	}
	if r.Points[1].ControlPoint1 == nil || *r.Points[1].ControlPoint1 != (Point{X: 150, Y: 50}) {
		t.Errorf("Control point lost in round trip: %+v", r.Points[1])
	}
}

func TestDecodeAppliesDefaults(t *testing.T) {
	payload := `{
		"sport": "soccer",
		"players": [{"id": "p1", "number": "9", "teamColor": "#fff", "position": {"x": 1, "y": 2}}],
		"routes": [{"id": "r1", "points": [{"x": 0, "y": 0}, {"x": 5, "y": 5}], "color": "#fff"}],
		"freehandDrawings": [{"id": "f1", "points": [0, 0, 1, 1], "color": "#fff"}],
		"textAnnotations": [{"id": "t1", "text": "hi", "position": {"x": 0, "y": 0}, "color": "#fff"}]
	}`

	s, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Players[0].Size != 40 {
		t.Errorf("Expected default player size 40, got %v", s.Players[0].Size)
	}
	r := s.Routes[0]
	if r.StrokeWidth != 3 || r.LineType != LineSolid || !r.HasArrow || r.IsCurved {
		t.Errorf("Expected route defaults, got %+v", r)
	}
	if s.FreehandDrawings[0].StrokeWidth != 2 {
		t.Errorf("Expected default freehand stroke 2, got %v", s.FreehandDrawings[0].StrokeWidth)
	}
	txt := s.TextAnnotations[0]
	if txt.FontSize != 16 || txt.FontWeight != FontNormal {
		t.Errorf("Expected text defaults, got %+v", txt)
	}
	if s.AnimationKeyframes == nil {
		t.Error("Expected missing keyframes to decode as empty list")
	}
	if s.ViewTransform != nil {
		t.Errorf("Expected absent view transform to stay absent, got %+v", s.ViewTransform)
	}
}

func TestDecodeKeepsExplicitFalse(t *testing.T) {
	s, err := Parse([]byte(`{"sport":"football","routes":[{"id":"r1","points":[],"color":"#fff","hasArrow":false}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Routes[0].HasArrow {
		t.Error("Explicit hasArrow=false was replaced by the default")
	}
}

func TestMarshalEmptyCollections(t *testing.T) {
	data, err := json.Marshal(Scene{Sport: SportCustom})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"players", "routes", "freehandDrawings", "textAnnotations", "animationKeyframes"} {
		if string(raw[key]) != "[]" {
			t.Errorf("Expected %s to be [], got %s", key, raw[key])
		}
	}
}

func TestElementLookup(t *testing.T) {
	s := sampleScene()

	tests := []struct {
		id   string
		kind Kind
	}{
		{"p1", KindPlayer},
		{"r1", KindRoute},
		{"f1", KindFreehand},
		{"t1", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			el, ok := s.Element(tt.id)
			if !ok {
				t.Fatalf("Element %s not found", tt.id)
			}
			if el.Kind() != tt.kind || el.ElementID() != tt.id {
				t.Errorf("Expected %s %s, got %s %s", tt.kind, tt.id, el.Kind(), el.ElementID())
			}
		})
	}

	if s.Has("missing") || s.Has("") {
		t.Error("Unexpected hit for unknown id")
	}
	if _, ok := s.Player("r1"); ok {
		t.Error("Player lookup must not return a route")
	}
}

func TestRemoveKeepsBoundRoutes(t *testing.T) {
	s := sampleScene()

	out, ok := s.Remove("p1")
	if !ok {
		t.Fatal("Remove p1 failed")
	}
	if out.Has("p1") {
		t.Error("p1 still present after removal")
	}
	r, ok := out.Route("r1")
	if !ok {
		t.Fatal("Route bound to removed player was deleted")
	}
	if r.PlayerID != "p1" {
		t.Errorf("Expected dangling playerId p1, got %q", r.PlayerID)
	}

	if len(s.Players) != 2 {
		t.Error("Remove mutated the input scene")
	}

	if _, ok := out.Remove("p1"); ok {
		t.Error("Second remove should report false")
	}
}

func TestRemoveEachKind(t *testing.T) {
	for _, id := range []string{"p2", "r1", "f1", "t1"} {
		s := sampleScene()
		out, ok := s.Remove(id)
		if !ok {
			t.Errorf("Remove %s failed", id)
			continue
		}
		if out.Len() != s.Len()-1 {
			t.Errorf("Remove %s: expected %d elements, got %d", id, s.Len()-1, out.Len())
		}
		for _, other := range []string{"p1", "p2", "r1", "f1", "t1"} {
			if other != id && !out.Has(other) {
				t.Errorf("Remove %s also dropped %s", id, other)
			}
		}
	}
}

func TestEditHelpersShareUntouched(t *testing.T) {
	s := sampleScene()

	moved, ok := s.MovePlayer("p1", Point{X: 1, Y: 1})
	if !ok {
		t.Fatal("MovePlayer failed")
	}
	if s.Players[0].Position != (Point{X: 100, Y: 100}) {
		t.Error("MovePlayer mutated the input")
	}
	if &moved.Routes[0] != &s.Routes[0] {
		t.Error("Expected routes to be shared between snapshots")
	}

	if _, ok := s.MovePlayer("t1", Point{}); ok {
		t.Error("MovePlayer accepted a text id")
	}
}

func TestMoveRoutePointKeepsControlPoints(t *testing.T) {
	s := sampleScene()

	out, ok := s.MoveRoutePoint("r1", 1, Point{X: 250, Y: 120})
	if !ok {
		t.Fatal("MoveRoutePoint failed")
	}
	pt := out.Routes[0].Points[1]
	if pt.X != 250 || pt.Y != 120 {
		t.Errorf("Point not moved: %+v", pt)
	}
	if pt.ControlPoint1 == nil {
		t.Error("Control point dropped by move")
	}
	if s.Routes[0].Points[1].X != 200 {
		t.Error("MoveRoutePoint mutated the input")
	}

	if _, ok := s.MoveRoutePoint("r1", 5, Point{}); ok {
		t.Error("Out of range index accepted")
	}
}

func TestBindRoute(t *testing.T) {
	s := sampleScene()

	out, ok := s.BindRoute("r1", "p2")
	if !ok || out.Routes[0].PlayerID != "p2" {
		t.Errorf("BindRoute to p2 failed: %+v", out.Routes[0])
	}
	if _, ok := s.BindRoute("r1", "nobody"); ok {
		t.Error("BindRoute accepted unknown player")
	}
	out, ok = s.BindRoute("r1", "")
	if !ok || out.Routes[0].PlayerID != "" {
		t.Error("Unbind failed")
	}
}

func TestCleared(t *testing.T) {
	s := sampleScene().WithView(ViewTransform{X: 10, Y: 20, Scale: 2})

	out := s.Cleared()
	if out.Len() != 0 {
		t.Errorf("Expected empty scene, got %d elements", out.Len())
	}
	if out.Sport != SportBasketball {
		t.Errorf("Sport changed to %s", out.Sport)
	}
	if *out.ViewTransform != (ViewTransform{X: 10, Y: 20, Scale: 2}) {
		t.Errorf("View transform changed to %+v", out.ViewTransform)
	}
	if out.Has("p1") {
		t.Error("Index still references cleared elements")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(Scene) Scene
		field string
	}{
		{"valid", func(s Scene) Scene { return s }, ""},
		{"unknown sport", func(s Scene) Scene { return s.WithSport("cricket") }, "sport"},
		{"duplicate id across kinds", func(s Scene) Scene {
			return s.WithText(TextAnnotation{ID: "p1", Text: "x", FontSize: 12, FontWeight: FontNormal})
		}, "textAnnotations[1].id"},
		{"short route", func(s Scene) Scene {
			return s.WithRoute(Route{ID: "r2", Points: []RoutePoint{{X: 1, Y: 1}}, StrokeWidth: 3, LineType: LineSolid})
		}, "routes[1].points"},
		{"odd freehand", func(s Scene) Scene {
			return s.WithFreehand(FreehandDrawing{ID: "f2", Points: []float64{0, 0, 1, 1, 2}, StrokeWidth: 2})
		}, "freehandDrawings[1].points"},
		{"blank text", func(s Scene) Scene {
			return s.WithText(TextAnnotation{ID: "t2", Text: "   ", FontSize: 12, FontWeight: FontNormal})
		}, "textAnnotations[1].text"},
		{"bad line type", func(s Scene) Scene {
			return s.WithRoute(Route{ID: "r2", Points: []RoutePoint{{}, {X: 1}}, StrokeWidth: 3, LineType: "wavy"})
		}, "routes[1].lineType"},
		{"zero scale", func(s Scene) Scene { return s.WithView(ViewTransform{Scale: 0}) }, "viewTransform.scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit(sampleScene()).Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Expected valid scene, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %s, got %s (%s)", tt.field, verr.Field, verr.Message)
			}
		})
	}
}
