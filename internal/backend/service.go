package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
)

// Service holds the backend rules. It does not check who is asking: requests
// carry no actor, so any caller may apply any mutation.
type Service struct {
	store     Store
	adminCode string
	removal   ports.RemovalMode
	log       zerolog.Logger
}

type Options struct {
	// AdminCode elevates a registration to the admin role. Empty disables it.
	AdminCode string
	Removal   ports.RemovalMode
}

func NewService(store Store, opts Options, log zerolog.Logger) *Service {
	if !opts.Removal.Valid() {
		opts.Removal = ports.RemovalSoft
	}
	return &Service{
		store:     store,
		adminCode: opts.AdminCode,
		removal:   opts.Removal,
		log:       log,
	}
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) Posts(ctx context.Context) ([]domain.Post, error) {
	return s.store.ListPosts(ctx)
}

// Register creates an account with the user role, or admin when the
// configured admin code matches.
func (s *Service) Register(ctx context.Context, username, password, adminCode string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	role := domain.RoleUser
	if s.adminCode != "" && adminCode == s.adminCode {
		role = domain.RoleAdmin
	}

	user, err := s.store.CreateUser(ctx, NewUser{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

// Login checks the password. A banned account is refused even with the
// right password.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, error) {
	acc, err := s.store.FindAccount(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if acc.User.IsBanned {
		return domain.User{}, ErrBanned
	}
	return acc.User, nil
}

func (s *Service) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	id, err := s.store.CreatePost(ctx, userID, title, content)
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return id, nil
}

func (s *Service) UpdateRole(ctx context.Context, userID int64, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.update(ctx, userID, UserPatch{Role: &role})
}

func (s *Service) UpdateFaction(ctx context.Context, userID int64, faction string) error {
	return s.update(ctx, userID, UserPatch{Faction: &faction})
}

func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return s.update(ctx, userID, UserPatch{IsBanned: &banned})
}

func (s *Service) SetMuted(ctx context.Context, userID int64, muted bool) error {
	return s.update(ctx, userID, UserPatch{IsMuted: &muted})
}

func (s *Service) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	return s.update(ctx, userID, UserPatch{Avatar: &avatar})
}

// Delete removes the account according to the configured removal mode:
// soft bans it and keeps it listed, hard drops it.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if s.removal == ports.RemovalHard {
		if err := s.store.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete user %d: %w", userID, err)
		}
		s.log.Info().Int64("user_id", userID).Msg("user deleted")
		return nil
	}

	banned := true
	if err := s.update(ctx, userID, UserPatch{IsBanned: &banned}); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("user removed by ban")
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) update(ctx context.Context, userID int64, patch UserPatch) error {
	if userID <= 0 {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if err := s.store.UpdateUser(ctx, userID, patch); err != nil {
		return fmt.Errorf("update user %d: %w", userID, err)
	}
	return nil
}
