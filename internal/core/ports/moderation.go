package ports

import (
	"context"

	"github.com/russiantown/portal/internal/core/domain"
)

// RemovalMode is the backend's meaning of "delete user".
type RemovalMode string

const (
	// RemovalSoft bans the account; it stays in the directory.
	RemovalSoft RemovalMode = "soft"
	// RemovalHard drops the account from the directory.
	RemovalHard RemovalMode = "hard"
)

func (m RemovalMode) Valid() bool {
	return m == RemovalSoft || m == RemovalHard
}

// ModerationService applies authorized mutations to a target account and
// reloads the world after each success.
type ModerationService interface {
	SetRole(ctx context.Context, targetID int64, role domain.Role) error
	SetFaction(ctx context.Context, targetID int64, faction string) error
	ToggleBan(ctx context.Context, targetID int64) (bool, error)
	ToggleMute(ctx context.Context, targetID int64) (bool, error)
	SetAvatar(ctx context.Context, url string) error
	RemoveUser(ctx context.Context, targetID int64) error
	CreatePost(ctx context.Context, title, content string) (int64, error)
}

// Reloader refreshes the user and post collections from the backend.
type Reloader interface {
	Reload(ctx context.Context) error
}
