package session

import (
	"context"
	"sync"
	"time"

	"github.com/bz888/dualchat/internal/logger"
	"github.com/google/uuid"
)

const DefaultTTL = 2 * time.Hour

// Session is one browser's ephemeral state: its credential gate and a lock
// that keeps a single submit in flight.
type Session struct {
	ID   string
	Gate *Gate

	busy     sync.Mutex
	lastSeen time.Time
}

// TryBegin claims the session for a submit. It returns false if another
// submit is still streaming.
func (s *Session) TryBegin() bool {
	return s.busy.TryLock()
}

// End releases a claim taken with TryBegin.
func (s *Session) End() {
	s.busy.Unlock()
}

// Store is the in-memory session registry. Nothing in it survives the process.
type Store struct {
	factory ClientFactory
	ttl     time.Duration
	now     func() time.Time
	logger  *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(factory ClientFactory, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.NewLogger("sessions"),
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with an empty credential.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Gate:     NewGate(s.factory),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Session created:", sess.ID)
	return sess
}

// Get returns a live session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// Delete tears a session down, dropping its credential.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Gate.Reset()
		s.logger.Info("Session ended:", id)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Gate.Reset()
	}
	if len(expired) > 0 {
		s.logger.Info("Expired idle sessions:", len(expired))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 4
	if interval <= 0 {
		interval = time.Millisecond
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
