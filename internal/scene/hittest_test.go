package scene

import "testing"

func TestHitTest(t *testing.T) {
	s := sampleScene()

	tests := []struct {
		name string
		at   Point
		want string
	}{
		{"player center", Point{X: 300, Y: 100}, "p2"},
		{"player edge", Point{X: 319, Y: 100}, "p2"},
		{"player over route", Point{X: 105, Y: 100}, "p1"},
		{"route body", Point{X: 160, Y: 105}, "r1"},
		{"freehand", Point{X: 5, Y: 6}, "f1"},
		{"text box", Point{X: 410, Y: 410}, "t1"},
		{"empty space", Point{X: 600, Y: 600}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(s, tt.at)
			if tt.want == "" {
				if ok {
					t.Errorf("Expected miss, got %s", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %q", tt.want, got)
			}
		})
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	s := New(SportCustom).
		WithPlayer(Player{ID: "under", Position: Point{X: 50, Y: 50}, Size: 40}).
		WithPlayer(Player{ID: "over", Position: Point{X: 60, Y: 50}, Size: 40})

	got, _ := HitTest(s, Point{X: 55, Y: 50})
	if got != "over" {
		t.Errorf("Expected later player on top, got %s", got)
	}
}

func TestHitRoutePoint(t *testing.T) {
	r := Route{Points: []RoutePoint{{X: 0, Y: 0}, {X: 100, Y: 0}}}

	if idx, ok := HitRoutePoint(r, Point{X: 103, Y: 2}); !ok || idx != 1 {
		t.Errorf("Expected handle 1, got %d %v", idx, ok)
	}
	if _, ok := HitRoutePoint(r, Point{X: 50, Y: 0}); ok {
		t.Error("Expected no handle at segment midpoint")
	}
}
