package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/core/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	// Deterministic, strictly increasing clock.
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func mustCreateUser(t *testing.T, s *Store, name string, role domain.Role) domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), backend.NewUser{Username: name, PasswordHash: "hash-" + name, Role: role})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustCreateUser(t, s, "boss", domain.RoleOwner)
	_ = s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	users, err := reopened.ListUsers(context.Background())
	if err != nil || len(users) != 1 {
		t.Fatalf("expected persisted user, got %v (%v)", users, err)
	}
}

func TestStore_CreateUser_Duplicate(t *testing.T) {
	s := openTestStore(t)
	mustCreateUser(t, s, "boss", domain.RoleOwner)

	_, err := s.CreateUser(context.Background(), backend.NewUser{Username: "boss", PasswordHash: "x", Role: domain.RoleUser})
	if !errors.Is(err, backend.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestStore_ListUsers_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	mustCreateUser(t, s, "first", domain.RoleUser)
	mustCreateUser(t, s, "second", domain.RoleUser)

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Username != "second" || users[1].Username != "first" {
		t.Fatalf("unexpected order: %+v", users)
	}
	if users[0].CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
}

func TestStore_ListEmpty(t *testing.T) {
	s := openTestStore(t)
	users, err := s.ListUsers(context.Background())
	if err != nil || users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v (%v)", users, err)
	}
	posts, err := s.ListPosts(context.Background())
	if err != nil || posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v (%v)", posts, err)
	}
}

func TestStore_FindAccount(t *testing.T) {
	s := openTestStore(t)
	created := mustCreateUser(t, s, "moder", domain.RoleAdmin)

	acc, err := s.FindAccount(context.Background(), "moder")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if acc.User.ID != created.ID || acc.User.Role != domain.RoleAdmin || acc.PasswordHash != "hash-moder" {
		t.Errorf("unexpected account: %+v", acc)
	}

	if _, err := s.FindAccount(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_UpdateUser_PatchesOnlyGivenFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "citizen", domain.RoleUser)

	faction := "ФСБ"
	if err := s.UpdateUser(ctx, u.ID, backend.UserPatch{Faction: &faction}); err != nil {
		t.Fatalf("update faction: %v", err)
	}
	banned := true
	if err := s.UpdateUser(ctx, u.ID, backend.UserPatch{IsBanned: &banned}); err != nil {
		t.Fatalf("update ban: %v", err)
	}

	acc, _ := s.FindAccount(ctx, "citizen")
	if acc.User.Faction != faction || !acc.User.IsBanned || acc.User.IsMuted || acc.User.Role != domain.RoleUser {
		t.Errorf("unexpected user after patches: %+v", acc.User)
	}

	role := domain.RoleAdminSenior
	avatar := "a.png"
	muted := true
	if err := s.UpdateUser(ctx, u.ID, backend.UserPatch{Role: &role, Avatar: &avatar, IsMuted: &muted}); err != nil {
		t.Fatalf("multi update: %v", err)
	}
	acc, _ = s.FindAccount(ctx, "citizen")
	if acc.User.Role != role || acc.User.Avatar != avatar || !acc.User.IsMuted || acc.User.Faction != faction {
		t.Errorf("unexpected user after multi patch: %+v", acc.User)
	}
}

func TestStore_UpdateUser_Missing(t *testing.T) {
	s := openTestStore(t)
	muted := true
	if err := s.UpdateUser(context.Background(), 99, backend.UserPatch{IsMuted: &muted}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_Posts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	author := mustCreateUser(t, s, "writer", domain.RoleUser)
	avatar := "w.png"
	_ = s.UpdateUser(ctx, author.ID, backend.UserPatch{Avatar: &avatar})

	first, err := s.CreatePost(ctx, author.ID, "one", "body one")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	second, _ := s.CreatePost(ctx, author.ID, "two", "body two")
	if second <= first {
		t.Errorf("ids must increase: %d then %d", first, second)
	}

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "two" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if posts[0].Author != "writer" || posts[0].AuthorAvatar != "w.png" {
		t.Errorf("author not joined: %+v", posts[0])
	}

	if _, err := s.CreatePost(ctx, 999, "x", "y"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown author, got %v", err)
	}
}

func TestStore_DeleteUser_CascadesPosts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "gone", domain.RoleUser)
	mustCreateUser(t, s, "stays", domain.RoleUser)
	if _, err := s.CreatePost(ctx, u.ID, "t", "c"); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users, _ := s.ListUsers(ctx)
	posts, _ := s.ListPosts(ctx)
	if len(users) != 1 || len(posts) != 0 {
		t.Errorf("expected 1 user and no posts, got %d/%d", len(users), len(posts))
	}

	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_Ping(t *testing.T) {
	if err := openTestStore(t).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
