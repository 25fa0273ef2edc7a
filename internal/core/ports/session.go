package ports

import (
	"context"

	"github.com/russiantown/portal/internal/core/domain"
)

// SessionPersister keeps the signed-in user across portal restarts.
// Load returns (nil, nil) when nothing is stored.
type SessionPersister interface {
	Save(ctx context.Context, user *domain.User) error
	Load(ctx context.Context) (*domain.User, error)
	Clear(ctx context.Context) error
}

// RegisterInput is what the registration form submits.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	AdminCode       string
}

// SessionService is the identity store of the portal.
type SessionService interface {
	Login(ctx context.Context, creds Credentials) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context) (*domain.User, error)

	CurrentUser() *domain.User
	CanAccessAdminPanel() bool
	IsOwner() bool
}
