package scene

// ============================================================
// Snapshot edits
// ============================================================
//
// Every helper returns a new Scene. Only the collection being edited is
// reallocated; the others are shared with the receiver.

func (s Scene) WithPlayer(p Player) Scene {
	out := s
	out.Players = appendCopy(s.Players, p)
	return out.indexed()
}

func (s Scene) WithRoute(r Route) Scene {
	out := s
	out.Routes = appendCopy(s.Routes, r)
	return out.indexed()
}

func (s Scene) WithFreehand(d FreehandDrawing) Scene {
	out := s
	out.FreehandDrawings = appendCopy(s.FreehandDrawings, d)
	return out.indexed()
}

func (s Scene) WithText(t TextAnnotation) Scene {
	out := s
	out.TextAnnotations = appendCopy(s.TextAnnotations, t)
	return out.indexed()
}

func (s Scene) WithSport(sport Sport) Scene {
	out := s
	out.Sport = sport
	return out
}

func (s Scene) WithView(v ViewTransform) Scene {
	out := s
	out.ViewTransform = &v
	return out
}

// MovePlayer sets the position of a player.
func (s Scene) MovePlayer(id string, pos Point) (Scene, bool) {
	ref, ok := s.lookup(id)
	if !ok || ref.kind != KindPlayer {
		return s, false
	}
	out := s
	out.Players = replaceAt(s.Players, ref.pos, func(p Player) Player {
		p.Position = pos
		return p
	})
	return out, true
}

// MoveText sets the position of a text annotation.
func (s Scene) MoveText(id string, pos Point) (Scene, bool) {
	ref, ok := s.lookup(id)
	if !ok || ref.kind != KindText {
		return s, false
	}
	out := s
	out.TextAnnotations = replaceAt(s.TextAnnotations, ref.pos, func(t TextAnnotation) TextAnnotation {
		t.Position = pos
		return t
	})
	return out, true
}

// MoveRoutePoint moves one route vertex, keeping its control point hints.
func (s Scene) MoveRoutePoint(routeID string, index int, pos Point) (Scene, bool) {
	ref, ok := s.lookup(routeID)
	if !ok || ref.kind != KindRoute {
		return s, false
	}
	if index < 0 || index >= len(s.Routes[ref.pos].Points) {
		return s, false
	}
	out := s
	out.Routes = replaceAt(s.Routes, ref.pos, func(r Route) Route {
		r.Points = replaceAt(r.Points, index, func(p RoutePoint) RoutePoint {
			p.X, p.Y = pos.X, pos.Y
			return p
		})
		return r
	})
	return out, true
}

// BindRoute sets the soft player reference of a route. An empty playerID
// unbinds it.
func (s Scene) BindRoute(routeID, playerID string) (Scene, bool) {
	ref, ok := s.lookup(routeID)
	if !ok || ref.kind != KindRoute {
		return s, false
	}
	if playerID != "" {
		if _, ok := s.Player(playerID); !ok {
			return s, false
		}
	}
	out := s
	out.Routes = replaceAt(s.Routes, ref.pos, func(r Route) Route {
		r.PlayerID = playerID
		return r
	})
	return out, true
}

// Cleared removes every drawable element but keeps sport, view transform and
// keyframes.
func (s Scene) Cleared() Scene {
	out := s
	out.Players = []Player{}
	out.Routes = []Route{}
	out.FreehandDrawings = []FreehandDrawing{}
	out.TextAnnotations = []TextAnnotation{}
	return out.indexed()
}

// Len is the number of drawable elements.
func (s Scene) Len() int {
	return len(s.Players) + len(s.Routes) + len(s.FreehandDrawings) + len(s.TextAnnotations)
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func replaceAt[T any](items []T, pos int, fn func(T) T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[pos] = fn(out[pos])
	return out
}
