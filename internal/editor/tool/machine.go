package tool

import (
	"strconv"
	"strings"

	"playops/internal/scene"
)

// ============================================================
// Tool state machine
// ============================================================

const (
	// RouteSampleDistance is the scene distance a pointer has to travel past
	// the last route point before a new point is recorded.
	RouteSampleDistance = 10.0

	DefaultColor = "#FF6B00"
)

// PointerEvent is a pointer sample in screen coordinates. Target optionally
// names the element the client reports under the pointer; when it names an
// existing element it takes precedence over geometric hit testing.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target string  `json:"target,omitempty"`
}

// Outcome is the result of feeding one input to the machine. Scene is what
// should be displayed. Commit means Scene is a finished edit for the history;
// Changed without Commit is a live preview of a drag in progress.
type Outcome struct {
	Scene   scene.Scene
	Commit  bool
	Changed bool
}

func unchanged(s scene.Scene) Outcome { return Outcome{Scene: s} }

func committed(s scene.Scene) Outcome { return Outcome{Scene: s, Commit: true, Changed: true} }

// TextPrompt is an open text input anchored at a scene point.
type TextPrompt struct {
	Position scene.Point `json:"position"`
	Value    string      `json:"value"`
}

type dragKind int

const (
	dragPlayer dragKind = iota + 1
	dragText
	dragRoutePoint
)

type drag struct {
	kind   dragKind
	id     string
	index  int
	origin scene.Point
	start  scene.Point
}

// Machine interprets pointer input against the active tool. It holds only
// session-local state; the committed scene is passed in on every call and
// never mutated.
type Machine struct {
	mode       Mode
	view       Viewport
	options    RouteOptions
	color      string
	selected   string
	nextNumber int

	currentRoute   *scene.Route
	currentDrawing *scene.FreehandDrawing
	prompt         *TextPrompt
	drag           *drag
	panning        bool
	panLast        [2]float64
}

func NewMachine(view Viewport) *Machine {
	return &Machine{
		mode:       ModeSelect,
		view:       view,
		options:    DefaultRouteOptions,
		color:      DefaultColor,
		nextNumber: 1,
	}
}

func (m *Machine) Mode() Mode                             { return m.mode }
func (m *Machine) View() Viewport                         { return m.view }
func (m *Machine) Options() RouteOptions                  { return m.options }
func (m *Machine) Color() string                          { return m.color }
func (m *Machine) Selected() string                       { return m.selected }
func (m *Machine) Prompt() *TextPrompt                    { return m.prompt }
func (m *Machine) SetView(v Viewport)                     { m.view = v }
func (m *Machine) CurrentRoute() *scene.Route             { return m.currentRoute }
func (m *Machine) CurrentDrawing() *scene.FreehandDrawing { return m.currentDrawing }

// Drawing reports whether a route or freehand stroke is in progress.
func (m *Machine) Drawing() bool {
	return m.currentRoute != nil || m.currentDrawing != nil
}

// Busy reports whether a pointer gesture is in progress.
func (m *Machine) Busy() bool {
	return m.Drawing() || m.drag != nil || m.panning
}

// ============================================================
// Commands
// ============================================================

// SetTool switches the active tool and abandons any gesture in progress.
// SetTool switches mode and abandons any gesture in progress. An open text
// prompt is resolved as on blur: non-blank text commits, blank text is
// dropped.
func (m *Machine) SetTool(s scene.Scene, mode Mode) (Outcome, error) {
	if !mode.Valid() {
		return unchanged(s), &scene.ValidationError{Field: "tool", Message: "unknown tool " + string(mode)}
	}
	out := m.SubmitText(s)
	m.mode = mode
	m.abortGesture()
	return out, nil
}

func (m *Machine) SetRouteOptions(p RouteOptionsPatch) error {
	opts, err := m.options.apply(p)
	if err != nil {
		return err
	}
	m.options = opts
	return nil
}

func (m *Machine) SetColor(color string) error {
	color = strings.TrimSpace(color)
	if color == "" {
		return &scene.ValidationError{Field: "color", Message: "color required"}
	}
	m.color = color
	return nil
}

// Select sets the selection to an element of s. An empty id clears it.
func (m *Machine) Select(s scene.Scene, id string) bool {
	if id == "" {
		m.selected = ""
		return true
	}
	if !s.Has(id) {
		return false
	}
	m.selected = id
	return true
}

// Reset drops all transient state and the selection, as when another play is
// opened. Tool, options, color and the player counter are kept.
func (m *Machine) Reset(view Viewport) {
	m.abortGesture()
	m.prompt = nil
	m.selected = ""
	m.view = view
}

// Forget clears the selection if it points at an element s no longer has.
func (m *Machine) Forget(s scene.Scene) {
	if m.selected != "" && !s.Has(m.selected) {
		m.selected = ""
	}
}

func (m *Machine) abortGesture() {
	m.currentRoute = nil
	m.currentDrawing = nil
	m.drag = nil
	m.panning = false
}

// Wheel zooms one step anchored at the screen point (sx, sy).
func (m *Machine) Wheel(sx, sy, deltaY float64) Viewport {
	m.view = m.view.Zoom(sx, sy, deltaY)
	return m.view
}

// ============================================================
// Text prompt
// ============================================================

func (m *Machine) SetText(value string) bool {
	if m.prompt == nil {
		return false
	}
	m.prompt.Value = value
	return true
}

// SubmitText commits the open prompt as a text annotation. Blank input is
// discarded; the stored text keeps its original whitespace.
func (m *Machine) SubmitText(s scene.Scene) Outcome {
	p := m.prompt
	m.prompt = nil
	if p == nil || strings.TrimSpace(p.Value) == "" {
		return unchanged(s)
	}
	return committed(s.WithText(scene.NewText(p.Value, p.Position, m.color)))
}

func (m *Machine) CancelText() {
	m.prompt = nil
}

// ============================================================
// Pointer input
// ============================================================

func (m *Machine) PointerDown(s scene.Scene, ev PointerEvent) Outcome {
	pos := m.view.ToScene(ev.X, ev.Y)

	switch m.mode {
	case ModePan:
		if p, ok := m.playerUnder(s, ev, pos); ok {
			m.drag = &drag{kind: dragPlayer, id: p.ID, origin: pos, start: p.Position}
			return unchanged(s)
		}
		m.panning = true
		m.panLast = [2]float64{ev.X, ev.Y}
		return unchanged(s)

	case ModePlayer:
		p := scene.NewPlayer(strconv.Itoa(m.nextNumber), m.color, pos)
		m.nextNumber++
		m.selected = p.ID
		return committed(s.WithPlayer(p))

	case ModeRoute:
		playerID := ""
		if pl, ok := m.playerUnder(s, ev, pos); ok {
			playerID = pl.ID
		}
		r := scene.NewRoute(playerID, m.color, pos)
		r.HasArrow = m.options.HasArrow
		r.IsCurved = m.options.IsCurved
		r.LineType = m.options.LineType
		m.currentRoute = &r
		return unchanged(s)

	case ModeFreehand:
		d := scene.NewFreehand(m.color, pos)
		m.currentDrawing = &d
		return unchanged(s)

	case ModeText:
		out := unchanged(s)
		if m.prompt != nil {
			out = m.SubmitText(s)
		}
		m.prompt = &TextPrompt{Position: pos}
		return out

	case ModeEraser:
		id, ok := m.resolve(s, ev, pos)
		if !ok {
			return unchanged(s)
		}
		next, ok := s.Remove(id)
		if !ok {
			return unchanged(s)
		}
		if m.selected == id {
			m.selected = ""
		}
		return committed(next)

	case ModeSelect:
		return m.selectDown(s, ev, pos)
	}

	return unchanged(s)
}

func (m *Machine) selectDown(s scene.Scene, ev PointerEvent, pos scene.Point) Outcome {
	if r, ok := s.Route(m.selected); ok {
		if idx, ok := scene.HitRoutePoint(r, pos); ok {
			m.drag = &drag{kind: dragRoutePoint, id: r.ID, index: idx, origin: pos, start: r.Points[idx].Point()}
			return unchanged(s)
		}
	}

	id, ok := m.resolve(s, ev, pos)
	if !ok {
		m.selected = ""
		return unchanged(s)
	}
	m.selected = id

	el, _ := s.Element(id)
	switch e := el.(type) {
	case scene.Player:
		m.drag = &drag{kind: dragPlayer, id: id, origin: pos, start: e.Position}
	case scene.TextAnnotation:
		m.drag = &drag{kind: dragText, id: id, origin: pos, start: e.Position}
	}
	return unchanged(s)
}

func (m *Machine) PointerMove(s scene.Scene, ev PointerEvent) Outcome {
	if m.panning {
		m.view = m.view.Pan(ev.X-m.panLast[0], ev.Y-m.panLast[1])
		m.panLast = [2]float64{ev.X, ev.Y}
		return unchanged(s)
	}

	pos := m.view.ToScene(ev.X, ev.Y)

	switch {
	case m.currentRoute != nil:
		pts := m.currentRoute.Points
		if scene.Distance(pts[len(pts)-1].Point(), pos) > RouteSampleDistance {
			r := *m.currentRoute
			r.Points = append(append([]scene.RoutePoint(nil), pts...), scene.RoutePoint{X: pos.X, Y: pos.Y})
			m.currentRoute = &r
		}
		return unchanged(s)

	case m.currentDrawing != nil:
		d := *m.currentDrawing
		d.Points = append(append([]float64(nil), d.Points...), pos.X, pos.Y)
		m.currentDrawing = &d
		return unchanged(s)

	case m.drag != nil:
		next, ok := m.dragTo(s, pos)
		if !ok {
			m.drag = nil
			return unchanged(s)
		}
		return Outcome{Scene: next, Changed: true}
	}

	return unchanged(s)
}

func (m *Machine) PointerUp(s scene.Scene, ev PointerEvent) Outcome {
	m.panning = false

	if r := m.currentRoute; r != nil {
		m.currentRoute = nil
		if len(r.Points) < scene.MinCommittedRoutePoints {
			return unchanged(s)
		}
		m.selected = r.ID
		return committed(s.WithRoute(*r))
	}

	if d := m.currentDrawing; d != nil {
		m.currentDrawing = nil
		if len(d.Points) < scene.MinCommittedFreehandNums {
			return unchanged(s)
		}
		return committed(s.WithFreehand(*d))
	}

	if m.drag != nil {
		pos := m.view.ToScene(ev.X, ev.Y)
		next, ok := m.dragTo(s, pos)
		moved := m.dragTarget(pos) != m.drag.start
		m.drag = nil
		if !ok || !moved {
			return unchanged(s)
		}
		return committed(next)
	}

	return unchanged(s)
}

func (m *Machine) dragTarget(pos scene.Point) scene.Point {
	return scene.Point{
		X: m.drag.start.X + pos.X - m.drag.origin.X,
		Y: m.drag.start.Y + pos.Y - m.drag.origin.Y,
	}
}

func (m *Machine) dragTo(s scene.Scene, pos scene.Point) (scene.Scene, bool) {
	target := m.dragTarget(pos)
	switch m.drag.kind {
	case dragPlayer:
		return s.MovePlayer(m.drag.id, target)
	case dragText:
		return s.MoveText(m.drag.id, target)
	case dragRoutePoint:
		return s.MoveRoutePoint(m.drag.id, m.drag.index, target)
	}
	return s, false
}

// resolve finds the element under the pointer. A client supplied target wins
// when it names an element of s.
func (m *Machine) resolve(s scene.Scene, ev PointerEvent, pos scene.Point) (string, bool) {
	if ev.Target != "" && s.Has(ev.Target) {
		return ev.Target, true
	}
	return scene.HitTest(s, pos)
}

func (m *Machine) playerUnder(s scene.Scene, ev PointerEvent, pos scene.Point) (scene.Player, bool) {
	if ev.Target != "" {
		if p, ok := s.Player(ev.Target); ok {
			return p, true
		}
	}
	return scene.HitPlayer(s, pos)
}
