package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/timeutil"
)

// DefaultSessionTTL is how long an untouched page session is kept.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	session  *PageSession
	lastSeen time.Time
}

// SessionStore keeps open page sessions in memory and expires idle ones.
type SessionStore struct {
	clock timeutil.Clock
	ttl   time.Duration
	log   zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionStore creates a store. A non-positive ttl uses DefaultSessionTTL.
func NewSessionStore(clock timeutil.Clock, ttl time.Duration, log zerolog.Logger) *SessionStore {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		clock:    clock,
		ttl:      ttl,
		log:      log,
		sessions: make(map[string]*sessionEntry),
	}
}

// NewID returns a fresh session identifier.
func (s *SessionStore) NewID() string {
	return uuid.New().String()
}

// Put registers a session.
func (s *SessionStore) Put(session *PageSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = &sessionEntry{session: session, lastSeen: s.clock.Now()}
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*PageSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if timeutil.Expired(s.clock, entry.lastSeen.Add(s.ttl)) {
		delete(s.sessions, id)
		entry.session.Close()
		return nil, domain.ErrSessionNotFound
	}
	entry.lastSeen = s.clock.Now()
	return entry.session, nil
}

// Delete closes and removes a session.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	entry.session.Close()
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	var expired []*PageSession
	for id, entry := range s.sessions {
		if timeutil.Expired(s.clock, entry.lastSeen.Add(s.ttl)) {
			expired = append(expired, entry.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		s.log.Debug().Int("expired", len(expired)).Msg("Swept page sessions")
	}
	return len(expired)
}

// RunSweeper sweeps every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// CloseAll closes and removes every session.
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for _, entry := range entries {
		entry.session.Close()
	}
}
