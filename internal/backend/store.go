// Package backend is a reference implementation of the community backend:
// one HTTP endpoint, operation selected by ?action=, users and posts kept
// in a Store. The portal talks to it through the gateway client.
package backend

import (
	"context"
	"errors"

	"github.com/russiantown/portal/internal/core/domain"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanned             = errors.New("account banned")
	ErrInvalidInput       = errors.New("invalid input")
)

// NewUser is an account about to be inserted.
type NewUser struct {
	Username     string
	PasswordHash string
	Role         domain.Role
}

// Account is a user together with its password hash.
type Account struct {
	User         domain.User
	PasswordHash string
}

// UserPatch lists the columns to change; nil fields are left alone.
type UserPatch struct {
	Role     *domain.Role
	Faction  *string
	Avatar   *string
	IsBanned *bool
	IsMuted  *bool
}

// Store persists users and posts.
//
// ListUsers and ListPosts return newest first. Lookups of a missing user
// return domain.ErrUserNotFound; a taken username returns ErrUserExists.
type Store interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)

	CreateUser(ctx context.Context, u NewUser) (domain.User, error)
	FindAccount(ctx context.Context, username string) (Account, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) error
	DeleteUser(ctx context.Context, id int64) error

	CreatePost(ctx context.Context, userID int64, title, content string) (int64, error)

	Ping(ctx context.Context) error
}
