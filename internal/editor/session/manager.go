package session

import (
	"context"
	"errors"
	"sync"

	"playops/internal/playbook/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Session Manager
// ============================================================

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session // session id -> session
	store    repository.Store
	opts     Options
	log      *zap.SugaredLogger
}

func NewManager(store repository.Store, opts Options, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		opts:     opts,
		log:      log,
	}
}

// Create starts a session under a fresh id.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := New(uuid.NewString(), m.store, m.opts, m.log)
	m.sessions[s.ID()] = s
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Close stops and forgets a session. It reports false for unknown ids.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// SaveAll writes every session with unsaved changes back to the store and
// returns how many were saved. Failures are logged and skipped.
func (m *Manager) SaveAll(ctx context.Context) int {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	saved := 0
	for _, s := range all {
		if !s.Dirty() {
			continue
		}
		if _, err := s.Save(ctx); err != nil {
			if !errors.Is(err, ErrNoPlay) {
				m.log.Warnw("autosave on shutdown failed", "session", s.ID(), "error", err)
			}
			continue
		}
		saved++
	}
	return saved
}

// CloseAll stops every session, as on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
