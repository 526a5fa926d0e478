package importer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/match"
)

// CandidateSource supplies the matchable catalog snapshot for a new batch.
type CandidateSource interface {
	ListCandidates(ctx context.Context) ([]match.Candidate, error)
}

// Manager owns the in-memory import sessions. Sessions live for the length
// of a review; accepted images are persisted by the apply pipeline, the
// session itself is discardable state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	source CandidateSource
	deps   Deps
}

func NewManager(source CandidateSource, deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		source:   source,
		deps:     deps,
	}
}

// Open snapshots the current catalog into a fresh session. The candidate
// index is built once here and read-only afterwards.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	candidates, err := m.source.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog candidates: %w", err)
	}

	session := NewSession(uuid.New().String(), candidates, m.deps)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns an open session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("import session %s not found", id)
	}
	return session, nil
}

// Close drops a finished session.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
