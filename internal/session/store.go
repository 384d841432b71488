// Package session keeps the last verification report of each interactive session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bootcheck/internal/domain"
)

// DefaultTTL matches the lifetime of the session cookie.
const DefaultTTL = 24 * time.Hour

// Session is the caller-owned state of one user. A new run replaces it wholesale.
type Session struct {
	ID     string
	Report *domain.VerificationReport
	Brand  string
	Model  string
}

func (s Session) HasReport() bool { return s.Report != nil }

type entry struct {
	session Session
	touched time.Time
}

// Store holds sessions in memory. Entries idle for longer than the TTL are
// dropped on the next Put and are invisible to Get.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]entry
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewID() string {
	return uuid.NewString()
}

// Get returns the stored session, or an empty one carrying id, and refreshes its idle timer.
func (s *Store) Get(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.sessions[id]
	if !ok {
		return Session{ID: id}
	}
	if s.expired(e, now) {
		delete(s.sessions, id)
		return Session{ID: id}
	}
	e.touched = now
	s.sessions[id] = e
	return e.session
}

// Put overwrites whatever was stored for sess.ID. Last write wins.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.sessions[sess.ID] = entry{session: sess, touched: now}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(e entry, now time.Time) bool {
	return now.Sub(e.touched) > s.ttl
}

func (s *Store) sweep(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}
