package backend_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
	"github.com/russiantown/portal/internal/infrastructure/db/sqlite"
	"github.com/russiantown/portal/internal/infrastructure/gateway"
	apphttp "github.com/russiantown/portal/internal/infrastructure/http"
	"github.com/russiantown/portal/internal/infrastructure/http/handlers"
)

type portal struct {
	backend *backend.Service
	store   *state.Store
	session *service.SessionService
	actions *service.Actions
}

// newPortal runs the reference backend on SQLite behind a test server and
// points a fully wired portal at it.
func newPortal(t *testing.T, removal ports.RemovalMode) *portal {
	t.Helper()
	log := zerolog.Nop()

	db, err := sqlite.Open(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	backendSvc := backend.NewService(db, backend.Options{AdminCode: "99797", Removal: removal}, log)
	router := apphttp.NewRouter(backend.NewHandler(backendSvc, log), map[string]handlers.Pinger{"store": db})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	gw := gateway.New(gateway.Config{BaseURL: srv.URL + apphttp.EndpointPath, Timeout: 5 * time.Second}, log)
	if err := gw.Ping(context.Background()); err != nil {
		t.Fatalf("backend not reachable: %v", err)
	}

	store := state.NewStore()
	loader := service.NewLoader(gw, store, log)
	session := service.NewSessionService(gw, store, loader, nil, log)
	moderation := service.NewModerationService(gw, store, loader, nil, service.ModerationOptions{Removal: removal}, log)

	return &portal{
		backend: backendSvc,
		store:   store,
		session: session,
		actions: service.NewActions(session, moderation, loader, removal, log),
	}
}

func (p *portal) mustOK(t *testing.T, what string, out service.Outcome) {
	t.Helper()
	if !out.OK {
		t.Fatalf("%s failed: %v %+v", what, out.Err(), out.Notices)
	}
}

func (p *portal) find(username string) (domain.User, bool) {
	for _, u := range p.store.Snapshot().Users {
		if u.Username == username {
			return u, true
		}
	}
	return domain.User{}, false
}

func TestPortal_EndToEnd(t *testing.T) {
	p := newPortal(t, ports.RemovalSoft)
	ctx := context.Background()

	p.mustOK(t, "register boss", p.actions.Register(ctx, ports.RegisterInput{
		Username: "boss", Password: "pw", ConfirmPassword: "pw",
	}))
	p.mustOK(t, "register moder", p.actions.Register(ctx, ports.RegisterInput{
		Username: "moder", Password: "pw", ConfirmPassword: "pw", AdminCode: "99797",
	}))
	p.mustOK(t, "register rowdy", p.actions.Register(ctx, ports.RegisterInput{
		Username: "rowdy", Password: "pw", ConfirmPassword: "pw",
	}))

	if p.session.CurrentUser() != nil {
		t.Fatal("registration must not sign in")
	}
	moder, _ := p.find("moder")
	if moder.Role != domain.RoleAdmin {
		t.Fatalf("admin code must elevate, got %s", moder.Role)
	}

	boss, _ := p.find("boss")
	if err := p.backend.UpdateRole(ctx, boss.ID, domain.RoleOwner); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	out := p.actions.Login(ctx, ports.Credentials{Username: "boss", Password: "wrong"})
	if out.OK || len(out.Notices) != 1 || out.Notices[0].Message != "invalid credentials" {
		t.Fatalf("expected backend message on bad login, got %+v", out)
	}

	p.mustOK(t, "login", p.actions.Login(ctx, ports.Credentials{Username: "boss", Password: "pw"}))
	if !p.session.IsOwner() || !p.session.CanAccessAdminPanel() {
		t.Fatal("owner must reach both panels")
	}

	rowdy, _ := p.find("rowdy")
	p.mustOK(t, "set faction", p.actions.SetFaction(ctx, rowdy.ID, "ФСБ"))
	p.mustOK(t, "toggle mute", p.actions.ToggleMute(ctx, rowdy.ID))
	p.mustOK(t, "toggle ban", p.actions.ToggleBan(ctx, rowdy.ID))

	rowdy, _ = p.find("rowdy")
	if rowdy.Faction != "ФСБ" || !rowdy.IsMuted || !rowdy.IsBanned {
		t.Fatalf("moderation not reflected after reload: %+v", rowdy)
	}

	out = p.actions.Login(ctx, ports.Credentials{Username: "rowdy", Password: "pw"})
	if out.OK || out.Notices[0].Message != "account banned" {
		t.Fatalf("banned login must be refused, got %+v", out)
	}
	if p.session.CurrentUser().Username != "boss" {
		t.Fatal("failed login must keep the current session")
	}

	p.mustOK(t, "unban", p.actions.ToggleBan(ctx, rowdy.ID))
	p.mustOK(t, "avatar", p.actions.SetAvatar(ctx, "https://img/boss.png"))
	p.mustOK(t, "post", p.actions.CreatePost(ctx, "Welcome", "Rules of the town"))

	snap := p.store.Snapshot()
	if snap.CurrentUser.Avatar != "https://img/boss.png" {
		t.Errorf("session avatar not patched: %q", snap.CurrentUser.Avatar)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].Author != "boss" || snap.Posts[0].AuthorAvatar != "https://img/boss.png" {
		t.Errorf("unexpected posts: %+v", snap.Posts)
	}

	targets := service.AdminPanelTargets(snap)
	for _, u := range targets {
		if u.ID == boss.ID {
			t.Error("admin panel must exclude self and owners")
		}
	}
	if len(targets) != 2 {
		t.Errorf("expected 2 admin targets, got %d", len(targets))
	}

	p.mustOK(t, "remove", p.actions.RemoveUser(ctx, rowdy.ID))
	rowdy, listed := p.find("rowdy")
	if !listed || !rowdy.IsBanned {
		t.Errorf("soft removal must keep the account listed and banned: %+v", rowdy)
	}

	p.actions.Logout(ctx)
	if p.session.CurrentUser() != nil {
		t.Error("logout must clear the session")
	}
	out = p.actions.ToggleBan(ctx, rowdy.ID)
	if out.OK {
		t.Error("mutations without a session must fail")
	}
}

func TestPortal_HardRemoval(t *testing.T) {
	p := newPortal(t, ports.RemovalHard)
	ctx := context.Background()

	for _, name := range []string{"boss", "rowdy"} {
		p.mustOK(t, "register "+name, p.actions.Register(ctx, ports.RegisterInput{
			Username: name, Password: "pw", ConfirmPassword: "pw",
		}))
	}
	p.mustOK(t, "login", p.actions.Login(ctx, ports.Credentials{Username: "rowdy", Password: "pw"}))
	rowdy, _ := p.find("rowdy")
	p.mustOK(t, "post", p.actions.CreatePost(ctx, "Hi", "there"))

	p.mustOK(t, "login boss", p.actions.Login(ctx, ports.Credentials{Username: "boss", Password: "pw"}))
	out := p.actions.RemoveUser(ctx, rowdy.ID)
	p.mustOK(t, "remove", out)
	if out.Notices[0].Message != "User deleted" {
		t.Errorf("unexpected notice %q", out.Notices[0].Message)
	}

	if _, listed := p.find("rowdy"); listed {
		t.Error("hard removal must drop the account")
	}
	if posts := p.store.Snapshot().Posts; len(posts) != 0 {
		t.Errorf("posts of a removed account must go with it, got %d", len(posts))
	}
}

func TestPortal_RegisterMismatchSendsNothing(t *testing.T) {
	p := newPortal(t, ports.RemovalSoft)
	out := p.actions.Register(context.Background(), ports.RegisterInput{
		Username: "x", Password: "a", ConfirmPassword: "b",
	})
	if out.OK {
		t.Fatal("mismatched confirmation must fail")
	}
	users, _ := p.backend.Users(context.Background())
	if len(users) != 0 {
		t.Errorf("no account may be created, got %d", len(users))
	}
}
