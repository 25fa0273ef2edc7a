package backend

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/russiantown/portal/internal/core/domain"
)

// memStore is an in-memory Store for service and handler tests.
type memStore struct {
	mu      sync.Mutex
	users   map[int64]*Account
	posts   []postRow
	nextID  int64
	pingErr error
	listErr error
}

type postRow struct {
	id      int64
	userID  int64
	title   string
	content string
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]*Account{}}
}

func (m *memStore) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.User, 0, len(m.users))
	for _, acc := range m.users {
		out = append(out, acc.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) ListPosts(context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Post, 0, len(m.posts))
	for i := len(m.posts) - 1; i >= 0; i-- {
		p := m.posts[i]
		author := m.users[p.userID]
		out = append(out, domain.Post{
			ID:           p.id,
			Title:        p.title,
			Content:      p.content,
			Author:       author.User.Username,
			AuthorAvatar: author.User.Avatar,
		})
	}
	return out, nil
}

func (m *memStore) CreateUser(_ context.Context, nu NewUser) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.users {
		if acc.User.Username == nu.Username {
			return domain.User{}, ErrUserExists
		}
	}
	m.nextID++
	u := domain.User{ID: m.nextID, Username: nu.Username, Role: nu.Role}
	m.users[u.ID] = &Account{User: u, PasswordHash: nu.PasswordHash}
	return u, nil
}

func (m *memStore) FindAccount(_ context.Context, username string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.users {
		if acc.User.Username == username {
			return *acc, nil
		}
	}
	return Account{}, domain.ErrUserNotFound
}

func (m *memStore) UpdateUser(_ context.Context, id int64, p UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if p.Role != nil {
		acc.User.Role = *p.Role
	}
	if p.Faction != nil {
		acc.User.Faction = *p.Faction
	}
	if p.Avatar != nil {
		acc.User.Avatar = *p.Avatar
	}
	if p.IsBanned != nil {
		acc.User.IsBanned = *p.IsBanned
	}
	if p.IsMuted != nil {
		acc.User.IsMuted = *p.IsMuted
	}
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	kept := m.posts[:0]
	for _, p := range m.posts {
		if p.userID != id {
			kept = append(kept, p)
		}
	}
	m.posts = kept
	return nil
}

func (m *memStore) CreatePost(_ context.Context, userID int64, title, content string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return 0, domain.ErrUserNotFound
	}
	m.nextID++
	m.posts = append(m.posts, postRow{id: m.nextID, userID: userID, title: title, content: content})
	return m.nextID, nil
}

func (m *memStore) Ping(context.Context) error {
	return m.pingErr
}

func (m *memStore) user(id int64) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].User
}

var errStoreDown = errors.New("store down")
