package state

import (
	"sync"

	"github.com/russiantown/portal/internal/core/domain"
)

// Store owns the current State. It is safe for concurrent use; every
// Dispatch replaces the state wholesale.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore returns a store in the initial loading state.
func NewStore() *Store {
	return &Store{state: State{Loading: true, Users: []domain.User{}, Posts: []domain.Post{}}}
}

// Dispatch applies a and returns the resulting snapshot.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.snapshot()
}

// Snapshot returns a copy of the current state that callers may keep.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() State {
	out := s.state
	out.Users = cloneUsers(s.state.Users)
	out.Posts = clonePosts(s.state.Posts)
	if s.state.CurrentUser != nil {
		u := *s.state.CurrentUser
		out.CurrentUser = &u
	}
	return out
}
