package models

import (
	"encoding/json"
	"strings"
	"time"

	"playops/internal/scene"
)

// ============================================================
// Play Model
// ============================================================

// Play is one named play of the playbook. Description and Tags are nullable.
type Play struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Sport       scene.Sport `json:"sport"`
	Tags        []string    `json:"tags"`
	Data        scene.Scene `json:"data"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewPlay is the payload for creating a play. Id and timestamps are assigned
// by the store.
type NewPlay struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Sport       scene.Sport `json:"sport"`
	Tags        []string    `json:"tags"`
	Data        scene.Scene `json:"data"`
}

// Now is the timestamp source for stores. Timestamps are kept in UTC at
// microsecond precision so they survive every backend unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Build assigns identity and timestamps to a validated payload.
func (n NewPlay) Build(id string, now time.Time) Play {
	return Play{
		ID:          id,
		Name:        n.Name,
		Description: n.Description,
		Sport:       n.Sport,
		Tags:        n.Tags,
		Data:        n.Data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (n NewPlay) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return &scene.ValidationError{Field: "name", Message: "name required"}
	}
	if !n.Sport.Valid() {
		return &scene.ValidationError{Field: "sport", Message: "unknown sport " + string(n.Sport)}
	}
	return validateData(n.Data)
}

// DecodeNewPlay parses and validates a create payload.
func DecodeNewPlay(body []byte) (NewPlay, error) {
	var raw struct {
		Name        *string         `json:"name"`
		Description *string         `json:"description"`
		Sport       *scene.Sport    `json:"sport"`
		Tags        []string        `json:"tags"`
		Data        json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return NewPlay{}, &scene.ValidationError{Message: "invalid json"}
	}
	if raw.Name == nil {
		return NewPlay{}, &scene.ValidationError{Field: "name", Message: "name required"}
	}
	if raw.Sport == nil {
		return NewPlay{}, &scene.ValidationError{Field: "sport", Message: "sport required"}
	}
	if isNull(raw.Data) {
		return NewPlay{}, &scene.ValidationError{Field: "data", Message: "data required"}
	}
	data, err := scene.Parse(raw.Data)
	if err != nil {
		return NewPlay{}, &scene.ValidationError{Field: "data", Message: err.Error()}
	}

	n := NewPlay{
		Name:        *raw.Name,
		Description: raw.Description,
		Sport:       *raw.Sport,
		Tags:        raw.Tags,
		Data:        data,
	}
	if err := n.Validate(); err != nil {
		return NewPlay{}, err
	}
	return n, nil
}

// ============================================================
// Partial update
// ============================================================

// PlayPatch carries the fields of a partial update. The *Set flags tell an
// explicit null (clear the field) apart from an absent key.
type PlayPatch struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	Sport          *scene.Sport
	Tags           []string
	TagsSet        bool
	Data           *scene.Scene
}

func (p PlayPatch) Empty() bool {
	return p.Name == nil && !p.DescriptionSet && p.Sport == nil && !p.TagsSet && p.Data == nil
}

func (p PlayPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &scene.ValidationError{Field: "name", Message: "name required"}
	}
	if p.Sport != nil && !p.Sport.Valid() {
		return &scene.ValidationError{Field: "sport", Message: "unknown sport " + string(*p.Sport)}
	}
	if p.Data != nil {
		return validateData(*p.Data)
	}
	return nil
}

// Apply returns play with the patch applied and UpdatedAt set to now.
func (p PlayPatch) Apply(play Play, now time.Time) Play {
	if p.Name != nil {
		play.Name = *p.Name
	}
	if p.DescriptionSet {
		play.Description = p.Description
	}
	if p.Sport != nil {
		play.Sport = *p.Sport
	}
	if p.TagsSet {
		play.Tags = p.Tags
	}
	if p.Data != nil {
		play.Data = *p.Data
	}
	play.UpdatedAt = now
	return play
}

// DecodePatch parses and validates a partial update payload. Unknown keys
// are ignored.
func DecodePatch(body []byte) (PlayPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return PlayPatch{}, &scene.ValidationError{Message: "invalid json"}
	}

	var p PlayPatch
	if v, ok := raw["name"]; ok {
		var name string
		if isNull(v) || json.Unmarshal(v, &name) != nil {
			return PlayPatch{}, &scene.ValidationError{Field: "name", Message: "must be a string"}
		}
		p.Name = &name
	}
	if v, ok := raw["description"]; ok {
		if err := json.Unmarshal(v, &p.Description); err != nil {
			return PlayPatch{}, &scene.ValidationError{Field: "description", Message: "must be a string or null"}
		}
		p.DescriptionSet = true
	}
	if v, ok := raw["sport"]; ok {
		var sport scene.Sport
		if isNull(v) || json.Unmarshal(v, &sport) != nil {
			return PlayPatch{}, &scene.ValidationError{Field: "sport", Message: "must be a string"}
		}
		p.Sport = &sport
	}
	if v, ok := raw["tags"]; ok {
		if err := json.Unmarshal(v, &p.Tags); err != nil {
			return PlayPatch{}, &scene.ValidationError{Field: "tags", Message: "must be a list of strings or null"}
		}
		p.TagsSet = true
	}
	if v, ok := raw["data"]; ok {
		if isNull(v) {
			return PlayPatch{}, &scene.ValidationError{Field: "data", Message: "must be a scene"}
		}
		data, err := scene.Parse(v)
		if err != nil {
			return PlayPatch{}, &scene.ValidationError{Field: "data", Message: err.Error()}
		}
		p.Data = &data
	}

	if err := p.Validate(); err != nil {
		return PlayPatch{}, err
	}
	return p, nil
}

func validateData(s scene.Scene) error {
	if err := s.Validate(); err != nil {
		if verr, ok := err.(*scene.ValidationError); ok {
			return &scene.ValidationError{Field: "data." + verr.Field, Message: verr.Message}
		}
		return err
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
