package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"playops/internal/playbook/models"
)

// ============================================================
// Store contract
// ============================================================

var (
	ErrNotFound    = errors.New("play not found")
	ErrUnavailable = errors.New("storage unavailable")
)

// Store persists plays. Implementations are safe for concurrent use.
type Store interface {
	// List returns every play, most recently updated first.
	List(ctx context.Context) ([]models.Play, error)
	Get(ctx context.Context, id string) (models.Play, error)
	// Create assigns a new id and sets both timestamps.
	Create(ctx context.Context, n models.NewPlay) (models.Play, error)
	// Update applies the patch and bumps UpdatedAt.
	Update(ctx context.Context, id string, p models.PlayPatch) (models.Play, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// unavailable wraps a backend failure so callers can match ErrUnavailable
// while the driver error stays inspectable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// sortByUpdated orders plays newest update first. Ties fall back to
// creation time, newest first, then id so the order never depends on map
// iteration.
func sortByUpdated(plays []models.Play) {
	sort.Slice(plays, func(i, j int) bool {
		a, b := plays[i], plays[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func cloneDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
