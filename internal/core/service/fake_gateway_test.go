package service

import (
	"context"
	"sync"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// fakeGateway behaves like the backend: it keeps users and posts in memory,
// applies mutations last-write-wins and records every call it receives.
// ---------------------------------------------------------------------------

type sentCall struct {
	Action string
	UserID int64
	Value  any
}

type fakeGateway struct {
	mu        sync.Mutex
	users     []domain.User
	posts     []domain.Post
	passwords map[string]string
	nextID    int64
	calls     []sentCall
	fail      map[string]error // action -> error kind
	softBan   bool             // delete bans instead of removing
}

func newFakeGateway(users ...domain.User) *fakeGateway {
	f := &fakeGateway{
		passwords: map[string]string{},
		fail:      map[string]error{},
		nextID:    100,
		softBan:   true,
	}
	for _, u := range users {
		f.users = append(f.users, u)
		f.passwords[u.Username] = "pw-" + u.Username
	}
	return f
}

func (f *fakeGateway) record(action string, userID int64, value any) error {
	f.calls = append(f.calls, sentCall{Action: action, UserID: userID, Value: value})
	if kind, ok := f.fail[action]; ok {
		return &domain.RequestError{Action: action, Status: 500, Kind: kind}
	}
	return nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGateway) callsFor(action string) []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentCall
	for _, c := range f.calls {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGateway) find(id int64) *domain.User {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i]
		}
	}
	return nil
}

func (f *fakeGateway) mutate(action string, id int64, value any, apply func(u *domain.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(action, id, value); err != nil {
		return err
	}
	if u := f.find(id); u != nil {
		apply(u)
	}
	return nil
}

func (f *fakeGateway) ListUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("users", 0, nil); err != nil {
		return nil, err
	}
	out := make([]domain.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeGateway) ListPosts(context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("posts", 0, nil); err != nil {
		return nil, err
	}
	out := make([]domain.Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakeGateway) Login(_ context.Context, creds ports.Credentials) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("login", 0, creds.Username); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Username == creds.Username && f.passwords[u.Username] == creds.Password {
			if u.IsBanned {
				return nil, &domain.RequestError{Action: "login", Status: 403, Message: "account banned", Kind: domain.ErrAuth}
			}
			out := u
			return &out, nil
		}
	}
	return nil, &domain.RequestError{Action: "login", Status: 401, Message: "invalid credentials", Kind: domain.ErrAuth}
}

func (f *fakeGateway) Register(_ context.Context, creds ports.Credentials) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("register", 0, creds); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Username == creds.Username {
			return nil, &domain.RequestError{Action: "register", Status: 409, Kind: domain.ErrRegistration}
		}
	}
	role := domain.RoleUser
	if creds.AdminCode == "99797" {
		role = domain.RoleAdmin
	}
	f.nextID++
	u := domain.User{ID: f.nextID, Username: creds.Username, Role: role}
	f.users = append(f.users, u)
	f.passwords[u.Username] = creds.Password
	return &u, nil
}

func (f *fakeGateway) CreatePost(_ context.Context, userID int64, title, content string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create-post", userID, title); err != nil {
		return 0, err
	}
	f.nextID++
	author := ""
	if u := f.find(userID); u != nil {
		author = u.Username
	}
	f.posts = append(f.posts, domain.Post{ID: f.nextID, Title: title, Content: content, Author: author})
	return f.nextID, nil
}

func (f *fakeGateway) UpdateRole(_ context.Context, userID int64, role domain.Role) error {
	return f.mutate("update-role", userID, role, func(u *domain.User) { u.Role = role })
}

func (f *fakeGateway) UpdateFaction(_ context.Context, userID int64, faction string) error {
	return f.mutate("update-faction", userID, faction, func(u *domain.User) { u.Faction = faction })
}

func (f *fakeGateway) SetBanned(_ context.Context, userID int64, banned bool) error {
	return f.mutate("ban", userID, banned, func(u *domain.User) { u.IsBanned = banned })
}

func (f *fakeGateway) SetMuted(_ context.Context, userID int64, muted bool) error {
	return f.mutate("mute", userID, muted, func(u *domain.User) { u.IsMuted = muted })
}

func (f *fakeGateway) UpdateAvatar(_ context.Context, userID int64, avatar string) error {
	return f.mutate("update-avatar", userID, avatar, func(u *domain.User) { u.Avatar = avatar })
}

func (f *fakeGateway) DeleteUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete", userID, nil); err != nil {
		return err
	}
	if f.softBan {
		if u := f.find(userID); u != nil {
			u.IsBanned = true
		}
		return nil
	}
	kept := f.users[:0]
	for _, u := range f.users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return nil
}

// ---------------------------------------------------------------------------
// stubPersister records what the session layer stores.
// ---------------------------------------------------------------------------

type stubPersister struct {
	saved   *domain.User
	cleared bool
	loadErr error
}

func (p *stubPersister) Save(_ context.Context, u *domain.User) error {
	if u != nil {
		clone := *u
		p.saved = &clone
	}
	return nil
}

func (p *stubPersister) Load(context.Context) (*domain.User, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.saved, nil
}

func (p *stubPersister) Clear(context.Context) error {
	p.saved = nil
	p.cleared = true
	return nil
}
