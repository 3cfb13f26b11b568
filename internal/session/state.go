package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateStore issues one-time OAuth state tokens and verifies them on
// callback. Tokens are single use and expire quickly; a token that
// fails verification means the callback did not originate from a login
// this server started.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Issue creates a new state token.
func (s *StateStore) Issue() string {
	state := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Opportunistic cleanup keeps the map bounded without a goroutine.
	now := time.Now()
	for st, exp := range s.states {
		if now.After(exp) {
			delete(s.states, st)
		}
	}

	s.states[state] = now.Add(s.ttl)
	return state
}

// Consume verifies and invalidates a state token.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(exp)
}
