package scene

import (
	"encoding/json"
	"reflect"
)

// ============================================================
// JSON codec
// ============================================================
//
// Decoding fills schema defaults for fields the payload omits, so a scene
// saved by an older client comes back with the same values a fresh element
// would have.

func (p *Player) UnmarshalJSON(data []byte) error {
	type alias Player
	raw := struct {
		alias
		Size *float64 `json:"size"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Player(raw.alias)
	p.Size = orDefault(raw.Size, DefaultPlayerSize)
	return nil
}

func (r *Route) UnmarshalJSON(data []byte) error {
	type alias Route
	raw := struct {
		alias
		StrokeWidth *float64  `json:"strokeWidth"`
		LineType    *LineType `json:"lineType"`
		HasArrow    *bool     `json:"hasArrow"`
		IsCurved    *bool     `json:"isCurved"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Route(raw.alias)
	r.StrokeWidth = orDefault(raw.StrokeWidth, DefaultRouteStrokeWidth)
	r.LineType = orDefault(raw.LineType, DefaultRouteLineType)
	r.HasArrow = orDefault(raw.HasArrow, DefaultRouteHasArrow)
	r.IsCurved = orDefault(raw.IsCurved, DefaultRouteIsCurved)
	if r.Points == nil {
		r.Points = []RoutePoint{}
	}
	return nil
}

func (d *FreehandDrawing) UnmarshalJSON(data []byte) error {
	type alias FreehandDrawing
	raw := struct {
		alias
		StrokeWidth *float64 `json:"strokeWidth"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = FreehandDrawing(raw.alias)
	d.StrokeWidth = orDefault(raw.StrokeWidth, DefaultFreehandStroke)
	if d.Points == nil {
		d.Points = []float64{}
	}
	return nil
}

func (t *TextAnnotation) UnmarshalJSON(data []byte) error {
	type alias TextAnnotation
	raw := struct {
		alias
		FontSize   *float64    `json:"fontSize"`
		FontWeight *FontWeight `json:"fontWeight"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TextAnnotation(raw.alias)
	t.FontSize = orDefault(raw.FontSize, DefaultFontSize)
	t.FontWeight = orDefault(raw.FontWeight, DefaultTextFontWeight)
	return nil
}

func (s *Scene) UnmarshalJSON(data []byte) error {
	type alias Scene
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Scene(raw).normalized().indexed()
	return nil
}

// MarshalJSON writes empty collections as [] rather than null.
func (s Scene) MarshalJSON() ([]byte, error) {
	type alias Scene
	return json.Marshal(alias(s.normalized()))
}

func (s Scene) normalized() Scene {
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Routes == nil {
		s.Routes = []Route{}
	}
	if s.FreehandDrawings == nil {
		s.FreehandDrawings = []FreehandDrawing{}
	}
	if s.TextAnnotations == nil {
		s.TextAnnotations = []TextAnnotation{}
	}
	if s.AnimationKeyframes == nil {
		s.AnimationKeyframes = []Keyframe{}
	}
	return s
}

// Parse decodes a scene from JSON and applies element defaults.
func Parse(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Equal compares the content of two scenes. Nil and empty collections are
// considered equal.
func Equal(a, b Scene) bool {
	a, b = a.normalized(), b.normalized()
	a.index, b.index = nil, nil
	return reflect.DeepEqual(a, b)
}

func orDefault[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
