package tool

import (
	"playops/internal/scene"
)

// Mode is the active pointer tool.
type Mode string

const (
	ModeSelect   Mode = "select"
	ModePan      Mode = "pan"
	ModePlayer   Mode = "player"
	ModeRoute    Mode = "route"
	ModeFreehand Mode = "freehand"
	ModeText     Mode = "text"
	ModeEraser   Mode = "eraser"
)

var Modes = []Mode{ModeSelect, ModePan, ModePlayer, ModeRoute, ModeFreehand, ModeText, ModeEraser}

func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// RouteOptions are applied to the next route drawn.
type RouteOptions struct {
	HasArrow bool           `json:"hasArrow"`
	IsCurved bool           `json:"isCurved"`
	LineType scene.LineType `json:"lineType"`
}

var DefaultRouteOptions = RouteOptions{
	HasArrow: scene.DefaultRouteHasArrow,
	IsCurved: scene.DefaultRouteIsCurved,
	LineType: scene.DefaultRouteLineType,
}

// RouteOptionsPatch changes only the fields that are set.
type RouteOptionsPatch struct {
	HasArrow *bool           `json:"hasArrow"`
	IsCurved *bool           `json:"isCurved"`
	LineType *scene.LineType `json:"lineType"`
}

func (o RouteOptions) apply(p RouteOptionsPatch) (RouteOptions, error) {
	if p.HasArrow != nil {
		o.HasArrow = *p.HasArrow
	}
	if p.IsCurved != nil {
		o.IsCurved = *p.IsCurved
	}
	if p.LineType != nil {
		if !p.LineType.Valid() {
			return o, &scene.ValidationError{Field: "lineType", Message: "unknown line type " + string(*p.LineType)}
		}
		o.LineType = *p.LineType
	}
	return o, nil
}
