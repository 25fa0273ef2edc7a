package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/state"
)

// SessionService tracks at most one signed-in user.
type SessionService struct {
	gateway   ports.Gateway
	store     *state.Store
	reloader  ports.Reloader
	persister ports.SessionPersister
	log       zerolog.Logger
}

// NewSessionService wires the identity store. A nil persister keeps the
// session in memory only.
func NewSessionService(
	gateway ports.Gateway,
	store *state.Store,
	reloader ports.Reloader,
	persister ports.SessionPersister,
	log zerolog.Logger,
) *SessionService {
	if persister == nil {
		persister = noopPersister{}
	}
	return &SessionService{
		gateway:   gateway,
		store:     store,
		reloader:  reloader,
		persister: persister,
		log:       log,
	}
}

// Login authenticates against the backend and starts the session. Only the
// username and password are sent; an admin code matters at registration.
// Whether the credentials are acceptable, blank ones included, is the
// backend's decision, so every rejection is an ErrAuth.
func (s *SessionService) Login(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	user, err := s.gateway.Login(ctx, creds)
	if err != nil {
		s.log.Warn().Err(err).Str("username", creds.Username).Msg("login rejected")
		return nil, err
	}

	s.store.Dispatch(state.SessionStarted{User: *user})
	if err := s.persister.Save(ctx, user); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to persist session")
	}
	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("signed in")

	return user, s.reloader.Reload(ctx)
}

// Register creates an account. A confirmation mismatch is rejected before any
// request is made. The caller is not signed in afterwards.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.gateway.Register(ctx, ports.Credentials{
		Username:  in.Username,
		Password:  in.Password,
		AdminCode: strings.TrimSpace(in.AdminCode),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("registration rejected")
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("account registered")
	return user, s.reloader.Reload(ctx)
}

// Logout ends the session. Login is stateless on the backend, so nothing is sent.
func (s *SessionService) Logout(ctx context.Context) {
	s.store.Dispatch(state.SessionEnded{})
	if err := s.persister.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

// Restore brings back a persisted session, if there is one.
func (s *SessionService) Restore(ctx context.Context) (*domain.User, error) {
	user, err := s.persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	s.store.Dispatch(state.SessionStarted{User: *user})
	s.log.Info().Int64("user_id", user.ID).Msg("session restored")
	return user, nil
}

func (s *SessionService) CurrentUser() *domain.User {
	return s.store.Snapshot().CurrentUser
}

func (s *SessionService) CanAccessAdminPanel() bool {
	return s.CurrentUser().CanAccessAdminPanel()
}

func (s *SessionService) IsOwner() bool {
	return s.CurrentUser().IsOwner()
}

type noopPersister struct{}

func (noopPersister) Save(context.Context, *domain.User) error   { return nil }
func (noopPersister) Load(context.Context) (*domain.User, error) { return nil, nil }
func (noopPersister) Clear(context.Context) error                { return nil }
