package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/archassist/archgames-backend/internal/logger"
	"github.com/archassist/archgames-backend/internal/types"
)

// MemoryStore is the in-process session store. All reads hand out copies;
// the answered transition is a check-and-set under the store lock, so two
// racing submissions for one id cannot both win.
type MemoryStore struct {
	log      *logger.Logger
	mu       sync.RWMutex
	sessions map[string]*types.GameSession
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		log:      log.With("store", "MemoryStore"),
		sessions: make(map[string]*types.GameSession),
	}
}

func (m *MemoryStore) Create(ctx context.Context, session *types.GameSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session must have an id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*types.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) RecordAnswer(ctx context.Context, id string, answer interface{}, result types.EvaluationResult) (*types.GameSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	if s.Answered {
		return cloneSession(s), false, nil
	}
	now := time.Now().UTC()
	s.Answered = true
	s.UserAnswer = answer
	s.Result = &result
	s.AnsweredAt = &now
	return cloneSession(s), true, nil
}

func (m *MemoryStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	// Snapshot ids first so the write lock is only held per deletion and a
	// session cannot vanish mid-evaluation under a long sweep.
	m.mu.RLock()
	stale := make([]string, 0)
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	m.mu.Lock()
	for _, id := range stale {
		if s, ok := m.sessions[id]; ok && s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		m.log.Info("Swept expired game sessions", "removed", removed)
	}
	return removed, nil
}

// Len reports the current session count. Used by tests and the sweep loop's
// log line.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
