package cart

import (
	"sync"
	"time"
)

// StoreFactory builds the persistence slot for one session id.
type StoreFactory func(sessionID string) Store

// Session wraps one engine with a lock so HTTP handlers for the same cart
// serialize, mirroring the one-event-at-a-time model the engine assumes.
type Session struct {
	mu       sync.Mutex
	engine   *Engine
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(*Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.engine)
}

// Manager owns the per-session cart engines. Engines are created lazily on
// first access, hydrated from their store, and dropped again after a period
// of inactivity (the store keeps the durable copy).
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	newStore StoreFactory
	sessions map[string]*Session
}

const sessionIdleTimeout = 30 * time.Minute

func NewManager(cfg Config, newStore StoreFactory) *Manager {
	m := &Manager{
		cfg:      cfg,
		newStore: newStore,
		sessions: make(map[string]*Session),
	}
	go m.evictIdle()
	return m
}

// Session returns the cart session for the given id, creating and hydrating
// it if this process has not seen the id yet.
func (m *Manager) Session(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s := &Session{
		engine:   NewEngine(m.newStore(sessionID), m.cfg),
		lastSeen: time.Now(),
	}
	m.sessions[sessionID] = s
	return s
}

func (m *Manager) evictIdle() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.Lock()
			idle := time.Since(s.lastSeen) > sessionIdleTimeout
			s.mu.Unlock()
			if idle {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
