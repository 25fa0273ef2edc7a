package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/state"
)

type harness struct {
	gw         *fakeGateway
	store      *state.Store
	loader     *Loader
	persister  *stubPersister
	session    *SessionService
	moderation *ModerationService
}

func newHarness(t *testing.T, opts ModerationOptions, users ...domain.User) *harness {
	t.Helper()
	h := &harness{
		gw:        newFakeGateway(users...),
		store:     state.NewStore(),
		persister: &stubPersister{},
	}
	log := zerolog.Nop()
	h.loader = NewLoader(h.gw, h.store, log)
	h.session = NewSessionService(h.gw, h.store, h.loader, h.persister, log)
	h.moderation = NewModerationService(h.gw, h.store, h.loader, h.persister, opts, log)
	return h
}

// signIn starts a session as u and loads the directory without going
// through the gateway's login, so call counts start at the reload.
func (h *harness) signIn(t *testing.T, u domain.User) {
	t.Helper()
	h.store.Dispatch(state.SessionStarted{User: u})
	if err := h.loader.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload: %v", err)
	}
}

func community() []domain.User {
	return []domain.User{
		{ID: 1, Username: "boss", Role: domain.RoleOwner},
		{ID: 2, Username: "moder", Role: domain.RoleAdminSenior},
		{ID: 7, Username: "rowdy", Role: domain.RoleUser},
		{ID: 42, Username: "citizen", Role: domain.RoleUser, Faction: "ФСБ", Avatar: "a.png"},
	}
}
