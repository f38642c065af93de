package service

import (
	"context"
	"fmt"
	"strings"

	"playops/internal/playbook/models"
	"playops/internal/playbook/repository"
	"playops/internal/scene"
)

// ============================================================
// Playbook Service
// ============================================================

const copySuffix = " (Copy)"

type Playbook struct {
	store repository.Store
}

func NewPlaybook(store repository.Store) *Playbook {
	return &Playbook{store: store}
}

func (s *Playbook) Store() repository.Store { return s.store }

// List returns plays newest first. A non-empty query keeps plays whose name
// or any tag contains it, ignoring case.
func (s *Playbook) List(ctx context.Context, query string) ([]models.Play, error) {
	plays, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return plays, nil
	}

	out := make([]models.Play, 0, len(plays))
	for _, p := range plays {
		if matches(p, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p models.Play, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (s *Playbook) Get(ctx context.Context, id string) (models.Play, error) {
	return s.store.Get(ctx, id)
}

func (s *Playbook) Create(ctx context.Context, n models.NewPlay) (models.Play, error) {
	if err := n.Validate(); err != nil {
		return models.Play{}, err
	}
	return s.store.Create(ctx, n)
}

// CreateEmpty creates a play with an empty scene for sport.
func (s *Playbook) CreateEmpty(ctx context.Context, name string, sport scene.Sport) (models.Play, error) {
	return s.Create(ctx, models.NewPlay{
		Name:  name,
		Sport: sport,
		Tags:  []string{},
		Data:  scene.New(sport),
	})
}

func (s *Playbook) Update(ctx context.Context, id string, p models.PlayPatch) (models.Play, error) {
	if err := p.Validate(); err != nil {
		return models.Play{}, err
	}
	return s.store.Update(ctx, id, p)
}

func (s *Playbook) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Duplicate copies a play under a new id with " (Copy)" appended to its name.
func (s *Playbook) Duplicate(ctx context.Context, id string) (models.Play, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Play{}, err
	}
	return s.store.Create(ctx, models.NewPlay{
		Name:        src.Name + copySuffix,
		Description: src.Description,
		Sport:       src.Sport,
		Tags:        src.Tags,
		Data:        src.Data,
	})
}

// Seed fills an empty store with the sample plays. It returns the number of
// plays created.
func (s *Playbook) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list plays: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := SamplePlays()
	for _, n := range samples {
		if _, err := s.store.Create(ctx, n); err != nil {
			return 0, fmt.Errorf("seed %q: %w", n.Name, err)
		}
	}
	return len(samples), nil
}
