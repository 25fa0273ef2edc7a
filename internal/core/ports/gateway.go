package ports

import (
	"context"

	"github.com/russiantown/portal/internal/core/domain"
)

// Credentials is the login/registration payload forwarded to the backend.
// AdminCode is optional and interpreted only by the backend.
type Credentials struct {
	Username  string
	Password  string
	AdminCode string
}

// Gateway is the remote backend. It owns every durable effect; a non-success
// response surfaces as a *domain.RequestError.
type Gateway interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)

	Login(ctx context.Context, creds Credentials) (*domain.User, error)
	Register(ctx context.Context, creds Credentials) (*domain.User, error)
	CreatePost(ctx context.Context, userID int64, title, content string) (int64, error)

	UpdateRole(ctx context.Context, userID int64, role domain.Role) error
	UpdateFaction(ctx context.Context, userID int64, faction string) error
	SetBanned(ctx context.Context, userID int64, banned bool) error
	SetMuted(ctx context.Context, userID int64, muted bool) error
	UpdateAvatar(ctx context.Context, userID int64, avatar string) error
	DeleteUser(ctx context.Context, userID int64) error
}
