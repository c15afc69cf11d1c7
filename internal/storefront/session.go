package storefront

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/menuflow/internal/cart"
	"github.com/joao-fontenele/menuflow/internal/checkout"
	"github.com/joao-fontenele/menuflow/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

const DefaultSessionIdleTimeout = 24 * time.Hour

// Session is one customer's ordering state.
type Session struct {
	ID        string         `json:"id"`
	Cart      cart.Cart      `json:"cart"`
	PackageID string         `json:"packageId,omitempty"`
	Selection cart.Selection `json:"selection"`
	Phase     checkout.Phase `json:"phase"`
	LastOrder *domain.Order  `json:"lastOrder,omitempty"`
	LastError string         `json:"lastError,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SessionStore keeps sessions in memory. Callers never hold its lock across
// I/O: Update runs fn under the lock, so fn must only compute.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionStore{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create starts a browsing session. Sessions idle longer than the idle
// timeout are dropped on the way.
func (s *SessionStore) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt) > s.idleTimeout {
			delete(s.sessions, id)
		}
	}

	sess := &Session{
		ID:        uuid.New().String(),
		Phase:     checkout.PhaseBrowsing,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return *sess
}

func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Update applies fn to a copy of the session and stores the copy only when
// fn succeeds.
func (s *SessionStore) Update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	next := *current
	if err := fn(&next); err != nil {
		return *current, err
	}
	next.UpdatedAt = s.now()
	s.sessions[id] = &next
	return next, nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
