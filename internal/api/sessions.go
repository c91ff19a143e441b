package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utakatalp/league-engine/internal/live"
	"github.com/utakatalp/league-engine/internal/metrics"
)

var errSessionNotFound = errors.New("live session not found")

// session owns one engine. mu serialises every call into it.
type session struct {
	mu       sync.Mutex
	id       uuid.UUID
	engine   *live.Engine
	homeID   int
	awayID   int
	recorded bool
	lastUsed time.Time
}

// sessions is the registry of open live matches. Sessions idle for longer than
// ttl are dropped the next time the registry is touched.
type sessions struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*session
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Recorder
}

func newSessions(ttl time.Duration, rec *metrics.Recorder) *sessions {
	return &sessions{
		byID:    make(map[uuid.UUID]*session),
		ttl:     ttl,
		now:     time.Now,
		metrics: rec,
	}
}

func (s *sessions) open(e *live.Engine, homeID, awayID int) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess := &session{
		id:       uuid.New(),
		engine:   e,
		homeID:   homeID,
		awayID:   awayID,
		lastUsed: s.now(),
	}
	s.byID[sess.id] = sess
	s.metrics.SessionOpened()
	return sess
}

// get looks up a session by its textual ID and marks it used.
func (s *sessions) get(raw string) (*session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid session id %q", raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess, ok := s.byID[id]
	if !ok {
		return nil, errSessionNotFound
	}
	sess.lastUsed = s.now()
	return sess, nil
}

func (s *sessions) close(raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return badRequest("invalid session id %q", raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return errSessionNotFound
	}
	delete(s.byID, id)
	s.metrics.SessionClosed()
	return nil
}

func (s *sessions) closeAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.byID)
	for id := range s.byID {
		delete(s.byID, id)
		s.metrics.SessionClosed()
	}
	return n
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *sessions) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.byID {
		if sess.lastUsed.Before(cutoff) {
			delete(s.byID, id)
			s.metrics.SessionClosed()
		}
	}
}
