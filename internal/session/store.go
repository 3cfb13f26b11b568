package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/MonkeyKingDev/git-peek/internal/errors"
	"github.com/MonkeyKingDev/git-peek/internal/models"
)

// Session binds a GitHub OAuth access token to the authenticated user
// for its lifetime. Tokens never leave the server.
type Session struct {
	ID          string            `json:"id"`
	AccessToken string            `json:"access_token"`
	User        models.GitHubUser `json:"user"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Expired reports whether the session has passed its TTL.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations must treat expired sessions
// as absent on Get.
type Store interface {
	Create(accessToken string, user models.GitHubUser) (Session, error)
	Get(id string) (Session, error)
	Delete(id string) error
	Close() error
}

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = apperrors.New(apperrors.ErrorTypeAuth, "session not found or expired")

// newID builds an unguessable session identifier. Two UUIDs keep the
// token comfortably past the minimum length validation enforces.
func newID() string {
	return uuid.NewString() + uuid.NewString()
}

// MemoryStore keeps sessions in process memory. Sessions are lost on
// restart, which matches the original single-process deployment.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates the in-memory store and starts its cleanup
// loop.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStore) Create(accessToken string, user models.GitHubUser) (Session, error) {
	now := time.Now()
	sess := Session{
		ID:          newID(),
		AccessToken: accessToken,
		User:        user,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrNotFound
	}
	if sess.Expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup loop.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired(time.Now())
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
