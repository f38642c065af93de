package scene

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []Point
	}{
		{"absolute", "M 10 10 L 20 30", []Point{{10, 10}, {20, 30}}},
		{"relative", "m10,10 l5,0 l0,5", []Point{{10, 10}, {15, 10}, {15, 15}}},
		{"horizontal and vertical", "M0 0 H10 V10 h-5 v-5", []Point{{0, 0}, {10, 0}, {10, 10}, {5, 10}, {5, 5}}},
		{"implicit lineto", "M0 0 10 0 10 10", []Point{{0, 0}, {10, 0}, {10, 10}}},
		{"closed", "M0 0 L10 0 L10 10 Z", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 0}}},
		{"closes to subpath start", "M0 0 L10 0 Z M20 20 L30 20 Z", []Point{{0, 0}, {10, 0}, {0, 0}, {20, 20}, {30, 20}, {20, 20}}},
		{"relative move after close", "M5 5 l10 0 z m10 10 l0 10 z", []Point{{5, 5}, {15, 5}, {5, 5}, {15, 15}, {15, 25}, {15, 15}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.d, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d points, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Point %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{"", "   ", "hello", "M 10", "M 10 abc", "L 1 2 3"} {
		if _, err := ParsePath(d); err == nil {
			t.Errorf("Expected error for %q", d)
		}
	}
}

func TestRouteFromPath(t *testing.T) {
	r, err := RouteFromPath("M0 0 L100 0 L100 100", "p1", "#FFFFFF")
	if err != nil {
		t.Fatalf("RouteFromPath failed: %v", err)
	}
	if len(r.Points) != 3 || r.PlayerID != "p1" || !r.HasArrow {
		t.Errorf("Unexpected route: %+v", r)
	}

	_, err = RouteFromPath("M0 0", "", "#FFFFFF")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError for single point path, got %v", err)
	}
}
