package scene

import (
	"github.com/google/uuid"
)

// ============================================================
// Constructors
// ============================================================

// New returns an empty scene for the sport with an identity view.
func New(sport Sport) Scene {
	return Scene{
		Sport:              sport,
		Players:            []Player{},
		Routes:             []Route{},
		FreehandDrawings:   []FreehandDrawing{},
		TextAnnotations:    []TextAnnotation{},
		AnimationKeyframes: []Keyframe{},
		ViewTransform:      &ViewTransform{X: 0, Y: 0, Scale: 1},
	}.indexed()
}

func NewID() string {
	return uuid.NewString()
}

func NewPlayer(number, teamColor string, pos Point) Player {
	return Player{
		ID:        NewID(),
		Number:    number,
		TeamColor: teamColor,
		Position:  pos,
		Size:      DefaultPlayerSize,
	}
}

// NewRoute starts an uncommitted single point route.
func NewRoute(playerID, color string, start Point) Route {
	return Route{
		ID:          NewID(),
		PlayerID:    playerID,
		Points:      []RoutePoint{{X: start.X, Y: start.Y}},
		Color:       color,
		StrokeWidth: DefaultRouteStrokeWidth,
		LineType:    DefaultRouteLineType,
		HasArrow:    DefaultRouteHasArrow,
		IsCurved:    DefaultRouteIsCurved,
	}
}

// NewFreehand starts an uncommitted drawing seeded with its first point.
func NewFreehand(color string, start Point) FreehandDrawing {
	return FreehandDrawing{
		ID:          NewID(),
		Points:      []float64{start.X, start.Y},
		Color:       color,
		StrokeWidth: DefaultFreehandStroke,
	}
}

func NewText(text string, pos Point, color string) TextAnnotation {
	return TextAnnotation{
		ID:         NewID(),
		Text:       text,
		Position:   pos,
		FontSize:   DefaultFontSize,
		Color:      color,
		FontWeight: DefaultTextFontWeight,
	}
}
