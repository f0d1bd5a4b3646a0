package session

import (
	"fmt"
	"sync"

	"github.com/tasktrack-io/tasktrack/internal/user"
)

// Store is the process-wide observable session container. All mutations
// replace the whole State under a single lock, so no reader can observe
// a token without a user or the reverse. Persistence failures are
// reported but never leave the in-memory state partially updated.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage Storage
	subs    []chan State
}

// NewStore creates a Store backed by the given durable storage.
// Storage may be nil for a purely in-memory session (tests).
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Hydrate loads persisted state into the store. It must run before the
// first Get that drives a navigation decision. A missing record leaves
// the store anonymous; a corrupt record is surfaced as an error.
func (s *Store) Hydrate() error {
	if s.storage == nil {
		return nil
	}

	state, ok, err := s.storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil
	}

	// Stored halves of a session are as bad as none
	if state.Token == "" || state.User == nil {
		return nil
	}

	s.set(state)
	return nil
}

// Get returns the current session snapshot
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current session token or "" when anonymous. It lets
// the Store act as the token source for outgoing API requests.
func (s *Store) Token() string {
	return s.Get().Token
}

// Login establishes a session atomically: token and user go in together.
// The new state is persisted before subscribers are notified.
func (s *Store) Login(token string, u user.Summary) error {
	state := State{Token: token, User: &u}

	if s.storage != nil {
		if err := s.storage.Save(state); err != nil {
			// In-memory session still works for this process
			s.set(state)
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}

	s.set(state)
	return nil
}

// Logout clears the session unconditionally, both in memory and in
// durable storage. No server call is made; tokens are not revocable.
func (s *Store) Logout() error {
	s.set(State{})

	if s.storage != nil {
		if err := s.storage.Clear(); err != nil {
			return fmt.Errorf("failed to clear persisted session: %w", err)
		}
	}
	return nil
}

// Subscribe returns a channel receiving every subsequent state change.
// The channel is buffered; a slow consumer drops intermediate states
// rather than blocking mutations.
func (s *Store) Subscribe() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) set(state State) {
	s.mu.Lock()
	s.state = state
	subs := make([]chan State, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- state:
		default:
			// Replace the stale pending state with the latest one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
