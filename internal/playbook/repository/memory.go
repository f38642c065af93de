package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"playops/internal/playbook/models"
)

// ============================================================
// In-memory Store
// ============================================================

type MemoryStore struct {
	mu    sync.RWMutex
	plays map[string]models.Play
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plays: make(map[string]models.Play),
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Play, 0, len(s.plays))
	for _, p := range s.plays {
		out = append(out, clonePlay(p))
	}
	sortByUpdated(out)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plays[id]
	if !ok {
		return models.Play{}, ErrNotFound
	}
	return clonePlay(p), nil
}

func (s *MemoryStore) Create(ctx context.Context, n models.NewPlay) (models.Play, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := clonePlay(n.Build(uuid.NewString(), models.Now()))
	s.plays[p.ID] = p
	return clonePlay(p), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch models.PlayPatch) (models.Play, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.plays[id]
	if !ok {
		return models.Play{}, ErrNotFound
	}
	updated := clonePlay(patch.Apply(existing, models.Now()))
	s.plays[id] = updated
	return clonePlay(updated), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plays[id]; !ok {
		return ErrNotFound
	}
	delete(s.plays, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// clonePlay detaches the mutable parts of a play. Scene data is immutable by
// convention and shared.
func clonePlay(p models.Play) models.Play {
	p.Tags = cloneTags(p.Tags)
	p.Description = cloneDescription(p.Description)
	return p
}
