package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/northledger/advisor-agent/internal/conversation"
)

// managedSession pairs a dialog session with its bookkeeping. Step calls are
// serialized per session; different sessions advance concurrently.
type managedSession struct {
	id         string
	session    *conversation.Session
	mu         sync.Mutex
	lastActive time.Time
	completed  bool // completion sink already fired
}

func (m *managedSession) step(ctx context.Context, text string, now time.Time) (conversation.State, conversation.AgentTurn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.session.State()
	turn := m.session.Step(ctx, text)
	m.lastActive = now
	return prev, turn
}

// markCompleted flips the completion flag under the session lock. It returns
// true exactly once per session, so the completion sink can never fire twice
// for concurrent terminal turns.
func (m *managedSession) markCompleted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed {
		return false
	}
	m.completed = true
	return true
}

// SessionManager owns the live sessions of the chat surface. Sessions are
// in-memory only; an idle session past the TTL is evicted and the user starts
// over.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession
	factory  func() *conversation.Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewSessionManager builds a manager that creates sessions with factory and
// evicts them after idleTTL without a turn.
func NewSessionManager(factory func() *conversation.Session, idleTTL time.Duration) *SessionManager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &SessionManager{
		sessions: make(map[string]*managedSession),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create starts a fresh session and returns its id.
func (m *SessionManager) Create() *managedSession {
	ms := &managedSession{
		id:         uuid.NewString(),
		session:    m.factory(),
		lastActive: m.now(),
	}
	m.mu.Lock()
	m.sessions[ms.id] = ms
	m.mu.Unlock()
	return ms
}

// Get returns the session for id, if it is still alive.
func (m *SessionManager) Get(id string) (*managedSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.sessions[id]
	return ms, ok
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle drops sessions idle past the TTL and returns how many went.
func (m *SessionManager) EvictIdle() int {
	cutoff := m.now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, ms := range m.sessions {
		if ms.lastActive.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartEvictionLoop evicts idle sessions until ctx is done.
func (m *SessionManager) StartEvictionLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.EvictIdle()
			}
		}
	}()
}
