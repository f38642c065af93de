package scene

// ============================================================
// Element lookup
// ============================================================

// Kind tags which collection an element id lives in.
type Kind int

const (
	KindPlayer Kind = iota + 1
	KindRoute
	KindFreehand
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindRoute:
		return "route"
	case KindFreehand:
		return "freehand"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Element is one of Player, Route, FreehandDrawing or TextAnnotation.
type Element interface {
	ElementID() string
	Kind() Kind
}

func (p Player) ElementID() string          { return p.ID }
func (p Player) Kind() Kind                 { return KindPlayer }
func (r Route) ElementID() string           { return r.ID }
func (r Route) Kind() Kind                  { return KindRoute }
func (d FreehandDrawing) ElementID() string { return d.ID }
func (d FreehandDrawing) Kind() Kind        { return KindFreehand }
func (t TextAnnotation) ElementID() string  { return t.ID }
func (t TextAnnotation) Kind() Kind         { return KindText }

type elementRef struct {
	kind Kind
	pos  int
}

// elementIndex maps every element id to its collection and slice position.
// It is built once per scene value and never mutated afterwards.
type elementIndex struct {
	refs map[string]elementRef
}

func buildIndex(s Scene) *elementIndex {
	refs := make(map[string]elementRef, len(s.Players)+len(s.Routes)+len(s.FreehandDrawings)+len(s.TextAnnotations))
	for i, p := range s.Players {
		refs[p.ID] = elementRef{kind: KindPlayer, pos: i}
	}
	for i, r := range s.Routes {
		refs[r.ID] = elementRef{kind: KindRoute, pos: i}
	}
	for i, d := range s.FreehandDrawings {
		refs[d.ID] = elementRef{kind: KindFreehand, pos: i}
	}
	for i, t := range s.TextAnnotations {
		refs[t.ID] = elementRef{kind: KindText, pos: i}
	}
	return &elementIndex{refs: refs}
}

// indexed returns s with its element index populated.
func (s Scene) indexed() Scene {
	s.index = buildIndex(s)
	return s
}

func (s Scene) lookup(id string) (elementRef, bool) {
	idx := s.index
	if idx == nil {
		idx = buildIndex(s)
	}
	ref, ok := idx.refs[id]
	return ref, ok
}

// Element returns the element with the given id regardless of its kind.
func (s Scene) Element(id string) (Element, bool) {
	if id == "" {
		return nil, false
	}
	ref, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	switch ref.kind {
	case KindPlayer:
		return s.Players[ref.pos], true
	case KindRoute:
		return s.Routes[ref.pos], true
	case KindFreehand:
		return s.FreehandDrawings[ref.pos], true
	case KindText:
		return s.TextAnnotations[ref.pos], true
	}
	return nil, false
}

// Has reports whether any element carries the id.
func (s Scene) Has(id string) bool {
	_, ok := s.Element(id)
	return ok
}

// Player returns the player with the given id.
func (s Scene) Player(id string) (Player, bool) {
	ref, ok := s.lookup(id)
	if !ok || ref.kind != KindPlayer {
		return Player{}, false
	}
	return s.Players[ref.pos], true
}

// Route returns the route with the given id.
func (s Scene) Route(id string) (Route, bool) {
	ref, ok := s.lookup(id)
	if !ok || ref.kind != KindRoute {
		return Route{}, false
	}
	return s.Routes[ref.pos], true
}

// Text returns the text annotation with the given id.
func (s Scene) Text(id string) (TextAnnotation, bool) {
	ref, ok := s.lookup(id)
	if !ok || ref.kind != KindText {
		return TextAnnotation{}, false
	}
	return s.TextAnnotations[ref.pos], true
}

// Remove deletes the element with the given id from whichever collection holds
// it. Routes bound to a removed player are kept.
func (s Scene) Remove(id string) (Scene, bool) {
	ref, ok := s.lookup(id)
	if !ok {
		return s, false
	}
	out := s
	switch ref.kind {
	case KindPlayer:
		out.Players = without(s.Players, ref.pos)
	case KindRoute:
		out.Routes = without(s.Routes, ref.pos)
	case KindFreehand:
		out.FreehandDrawings = without(s.FreehandDrawings, ref.pos)
	case KindText:
		out.TextAnnotations = without(s.TextAnnotations, ref.pos)
	}
	return out.indexed(), true
}

func without[T any](items []T, pos int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:pos]...)
	return append(out, items[pos+1:]...)
}
