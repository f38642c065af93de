package scene

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Enumerations
// ============================================================

type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportSoccer     Sport = "soccer"
	SportVolleyball Sport = "volleyball"
	SportHockey     Sport = "hockey"
	SportBaseball   Sport = "baseball"
	SportCustom     Sport = "custom"
)

// Sports lists every supported sport in display order.
var Sports = []Sport{
	SportBasketball,
	SportFootball,
	SportSoccer,
	SportVolleyball,
	SportHockey,
	SportBaseball,
	SportCustom,
}

func (s Sport) Valid() bool {
	for _, known := range Sports {
		if s == known {
			return true
		}
	}
	return false
}

type LineType string

const (
	LineSolid  LineType = "solid"
	LineDashed LineType = "dashed"
	LineDotted LineType = "dotted"
)

func (l LineType) Valid() bool {
	return l == LineSolid || l == LineDashed || l == LineDotted
}

type FontWeight string

const (
	FontNormal FontWeight = "normal"
	FontBold   FontWeight = "bold"
)

func (w FontWeight) Valid() bool {
	return w == FontNormal || w == FontBold
}

// ============================================================
// Defaults
// ============================================================

const (
	DefaultPlayerSize        = 40.0
	DefaultRouteStrokeWidth  = 3.0
	DefaultFreehandStroke    = 2.0
	DefaultFontSize          = 16.0
	DefaultRouteHasArrow     = true
	DefaultRouteIsCurved     = false
	DefaultRouteLineType     = LineSolid
	DefaultTextFontWeight    = FontNormal
	MinCommittedRoutePoints  = 2
	MinCommittedFreehandNums = 4
)

// ============================================================
// Scene elements
// ============================================================

type Player struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Label     string  `json:"label,omitempty"`
	TeamColor string  `json:"teamColor"`
	Position  Point   `json:"position"`
	Size      float64 `json:"size"`
}

// RoutePoint is a route vertex. Control points are carried through but never
// consumed by interpolation or commit logic.
type RoutePoint struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	ControlPoint1 *Point  `json:"controlPoint1,omitempty"`
	ControlPoint2 *Point  `json:"controlPoint2,omitempty"`
}

func (p RoutePoint) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

type Route struct {
	ID          string       `json:"id"`
	PlayerID    string       `json:"playerId,omitempty"`
	Points      []RoutePoint `json:"points"`
	Color       string       `json:"color"`
	StrokeWidth float64      `json:"strokeWidth"`
	LineType    LineType     `json:"lineType"`
	HasArrow    bool         `json:"hasArrow"`
	IsCurved    bool         `json:"isCurved"`
}

// FreehandDrawing stores its stroke as flat x0,y0,x1,y1,... pairs.
type FreehandDrawing struct {
	ID          string    `json:"id"`
	Points      []float64 `json:"points"`
	Color       string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
}

type TextAnnotation struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Position   Point      `json:"position"`
	FontSize   float64    `json:"fontSize"`
	Color      string     `json:"color"`
	FontWeight FontWeight `json:"fontWeight"`
}

// Keyframe is reserved for explicit per-player timing. Playback derives
// timing from route point spacing and ignores these.
type Keyframe struct {
	PlayerID string  `json:"playerId"`
	Time     float64 `json:"time"`
	Position Point   `json:"position"`
}

type ViewTransform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// ============================================================
// Scene
// ============================================================

// Scene is the full drawable content of one play. Values are treated as
// immutable: edit helpers return a new Scene and share untouched collections
// with the receiver.
type Scene struct {
	Sport              Sport             `json:"sport"`
	Players            []Player          `json:"players"`
	Routes             []Route           `json:"routes"`
	FreehandDrawings   []FreehandDrawing `json:"freehandDrawings"`
	TextAnnotations    []TextAnnotation  `json:"textAnnotations"`
	AnimationKeyframes []Keyframe        `json:"animationKeyframes"`
	ViewTransform      *ViewTransform    `json:"viewTransform,omitempty"`

	index *elementIndex
}
