// Package state holds the portal's view of the world: the signed-in user and
// the last loaded user and post collections. State changes only through
// Reduce, which never mutates its input.
package state

import "github.com/russiantown/portal/internal/core/domain"

// State is an immutable snapshot. Treat the slices as read-only.
type State struct {
	CurrentUser *domain.User  `json:"currentUser"`
	Users       []domain.User `json:"users"`
	Posts       []domain.Post `json:"posts"`
	Loading     bool          `json:"loading"`
}

// FindUser returns the user with id from the loaded directory.
func (s State) FindUser(id int64) (domain.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// Action is a state transition. The set of actions is closed.
type Action interface {
	isAction()
}

// LoadStarted marks a reload in flight.
type LoadStarted struct{}

// LoadSucceeded replaces both collections at once.
type LoadSucceeded struct {
	Users []domain.User
	Posts []domain.Post
}

// LoadFailed ends a reload without touching either collection.
type LoadFailed struct{}

// SessionStarted sets the signed-in user.
type SessionStarted struct {
	User domain.User
}

// SessionEnded clears the signed-in user.
type SessionEnded struct{}

// AvatarChanged patches the signed-in user's avatar ahead of the next reload.
type AvatarChanged struct {
	URL string
}

func (LoadStarted) isAction()    {}
func (LoadSucceeded) isAction()  {}
func (LoadFailed) isAction()     {}
func (SessionStarted) isAction() {}
func (SessionEnded) isAction()   {}
func (AvatarChanged) isAction()  {}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Loading = true
	case LoadSucceeded:
		s.Users = cloneUsers(a.Users)
		s.Posts = clonePosts(a.Posts)
		s.Loading = false
	case LoadFailed:
		s.Loading = false
	case SessionStarted:
		u := a.User
		s.CurrentUser = &u
	case SessionEnded:
		s.CurrentUser = nil
	case AvatarChanged:
		if s.CurrentUser != nil {
			u := *s.CurrentUser
			u.Avatar = a.URL
			s.CurrentUser = &u
		}
	}
	return s
}

func cloneUsers(in []domain.User) []domain.User {
	out := make([]domain.User, len(in))
	copy(out, in)
	return out
}

func clonePosts(in []domain.Post) []domain.Post {
	out := make([]domain.Post, len(in))
	copy(out, in)
	return out
}
