package scene

import (
	"fmt"
	"strings"
)

// ============================================================
// Validation
// ============================================================

// ValidationError reports a malformed payload field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate performs shape checks on a committed scene.
func (s Scene) Validate() error {
	if !s.Sport.Valid() {
		return invalid("sport", "unknown sport %q", s.Sport)
	}

	seen := make(map[string]string, s.Len())
	claim := func(field, id string) error {
		if strings.TrimSpace(id) == "" {
			return invalid(field+".id", "id required")
		}
		if prev, dup := seen[id]; dup {
			return invalid(field+".id", "id %q already used by %s", id, prev)
		}
		seen[id] = field
		return nil
	}

	for i, p := range s.Players {
		field := fmt.Sprintf("players[%d]", i)
		if err := claim(field, p.ID); err != nil {
			return err
		}
		if p.Size <= 0 {
			return invalid(field+".size", "must be positive")
		}
	}

	for i, r := range s.Routes {
		field := fmt.Sprintf("routes[%d]", i)
		if err := claim(field, r.ID); err != nil {
			return err
		}
		if len(r.Points) < MinCommittedRoutePoints {
			return invalid(field+".points", "route needs at least %d points", MinCommittedRoutePoints)
		}
		if !r.LineType.Valid() {
			return invalid(field+".lineType", "unknown line type %q", r.LineType)
		}
		if r.StrokeWidth <= 0 {
			return invalid(field+".strokeWidth", "must be positive")
		}
	}

	for i, d := range s.FreehandDrawings {
		field := fmt.Sprintf("freehandDrawings[%d]", i)
		if err := claim(field, d.ID); err != nil {
			return err
		}
		if len(d.Points) < MinCommittedFreehandNums || len(d.Points)%2 != 0 {
			return invalid(field+".points", "drawing needs an even list of at least %d numbers", MinCommittedFreehandNums)
		}
		if d.StrokeWidth <= 0 {
			return invalid(field+".strokeWidth", "must be positive")
		}
	}

	for i, t := range s.TextAnnotations {
		field := fmt.Sprintf("textAnnotations[%d]", i)
		if err := claim(field, t.ID); err != nil {
			return err
		}
		if strings.TrimSpace(t.Text) == "" {
			return invalid(field+".text", "text required")
		}
		if !t.FontWeight.Valid() {
			return invalid(field+".fontWeight", "unknown font weight %q", t.FontWeight)
		}
		if t.FontSize <= 0 {
			return invalid(field+".fontSize", "must be positive")
		}
	}

	if v := s.ViewTransform; v != nil && v.Scale <= 0 {
		return invalid("viewTransform.scale", "must be positive")
	}

	return nil
}
