// Package session keeps one metadata cache per client session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/metadata"
	"github.com/hyperjump/marquee/internal/metrics"
)

// Session is a client session and the resolver that caches its metadata.
type Session struct {
	ID       string
	Resolver *metadata.CachingResolver
	Created  time.Time

	lastSeen time.Time
}

// Manager hands out sessions. Sessions idle longer than the TTL are dropped, and the
// least recently used session is evicted when the registry is full.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	newResolver func() *metadata.CachingResolver
	ttl         time.Duration
	max         int
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. newResolver builds the cache-backed resolver for each new
// session. ttl <= 0 disables expiry; max <= 0 disables the session limit.
func NewManager(newResolver func() *metadata.CachingResolver, ttl time.Duration, max int, opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		newResolver: newResolver,
		ttl:         ttl,
		max:         max,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire returns the live session with the given id, or a new session with a fresh id
// when id is empty, unknown or expired.
func (m *Manager) Acquire(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = now
		return s
	}

	if m.max > 0 && len(m.sessions) >= m.max {
		m.evictOldestLocked()
	}
	s := &Session{
		ID:       uuid.NewString(),
		Resolver: m.newResolver(),
		Created:  now,
		lastSeen: now,
	}
	m.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.logger.Debug("session created", zap.String("session_id", s.ID))
	return s
}

// Reset clears the metadata cache of session id. It reports whether the session exists.
func (m *Manager) Reset(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.Resolver.Cache().Reset()
	m.logger.Debug("session cache cleared", zap.String("session_id", id))
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		m.logger.Debug("expired sessions removed", zap.Int("count", removed))
	}
}

func (m *Manager) evictOldestLocked() {
	var oldest *Session
	for _, s := range m.sessions {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(m.sessions, oldest.ID)
	}
}
