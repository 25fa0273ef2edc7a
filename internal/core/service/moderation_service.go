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

// ModerationOptions configures the moderation controller.
type ModerationOptions struct {
	// LocalTargetGuard rejects self-targets and owner-targets before any
	// request is sent. Off by default: the backend is the authority.
	LocalTargetGuard bool
	// Removal is the backend's meaning of "delete user".
	Removal ports.RemovalMode
}

// ModerationService issues one mutation per call and then reloads the world.
// Mutations are last-write-wins; nothing here detects concurrent edits.
type ModerationService struct {
	gateway   ports.Gateway
	store     *state.Store
	reloader  ports.Reloader
	persister ports.SessionPersister
	opts      ModerationOptions
	log       zerolog.Logger
}

func NewModerationService(
	gateway ports.Gateway,
	store *state.Store,
	reloader ports.Reloader,
	persister ports.SessionPersister,
	opts ModerationOptions,
	log zerolog.Logger,
) *ModerationService {
	if persister == nil {
		persister = noopPersister{}
	}
	if !opts.Removal.Valid() {
		opts.Removal = ports.RemovalSoft
	}
	return &ModerationService{
		gateway:   gateway,
		store:     store,
		reloader:  reloader,
		persister: persister,
		opts:      opts,
		log:       log,
	}
}

// Removal reports the configured removal semantics.
func (m *ModerationService) Removal() ports.RemovalMode {
	return m.opts.Removal
}

// SetRole assigns role to the target. Any role may be assigned.
func (m *ModerationService) SetRole(ctx context.Context, targetID int64, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	actor, _, err := m.authorize(targetID)
	if err != nil {
		return err
	}

	if err := m.gateway.UpdateRole(ctx, targetID, role); err != nil {
		return m.rejected(err, actor, targetID, "set role")
	}
	m.applied(actor, targetID, "set role").Str("role", string(role)).Msg("moderation applied")
	return m.reloader.Reload(ctx)
}

// SetFaction assigns a faction. The name is forwarded as-is; catalog
// membership is not checked.
func (m *ModerationService) SetFaction(ctx context.Context, targetID int64, faction string) error {
	actor, _, err := m.authorize(targetID)
	if err != nil {
		return err
	}

	if err := m.gateway.UpdateFaction(ctx, targetID, faction); err != nil {
		return m.rejected(err, actor, targetID, "set faction")
	}
	m.applied(actor, targetID, "set faction").Str("faction", faction).Msg("moderation applied")
	return m.reloader.Reload(ctx)
}

// ToggleBan sends the negation of the target's ban flag as last loaded and
// returns the value sent.
func (m *ModerationService) ToggleBan(ctx context.Context, targetID int64) (bool, error) {
	actor, snap, err := m.authorize(targetID)
	if err != nil {
		return false, err
	}
	target, ok := snap.FindUser(targetID)
	if !ok {
		return false, fmt.Errorf("toggle ban %d: %w", targetID, domain.ErrUserNotFound)
	}

	banned := !target.IsBanned
	if err := m.gateway.SetBanned(ctx, targetID, banned); err != nil {
		return false, m.rejected(err, actor, targetID, "toggle ban")
	}
	m.applied(actor, targetID, "toggle ban").Bool("is_banned", banned).Msg("moderation applied")
	return banned, m.reloader.Reload(ctx)
}

// ToggleMute is ToggleBan for the independent mute flag.
func (m *ModerationService) ToggleMute(ctx context.Context, targetID int64) (bool, error) {
	actor, snap, err := m.authorize(targetID)
	if err != nil {
		return false, err
	}
	target, ok := snap.FindUser(targetID)
	if !ok {
		return false, fmt.Errorf("toggle mute %d: %w", targetID, domain.ErrUserNotFound)
	}

	muted := !target.IsMuted
	if err := m.gateway.SetMuted(ctx, targetID, muted); err != nil {
		return false, m.rejected(err, actor, targetID, "toggle mute")
	}
	m.applied(actor, targetID, "toggle mute").Bool("is_muted", muted).Msg("moderation applied")
	return muted, m.reloader.Reload(ctx)
}

// SetAvatar changes the signed-in user's own avatar. The session is patched
// as soon as the backend accepts, before the reload.
func (m *ModerationService) SetAvatar(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: avatar url is required", domain.ErrValidation)
	}
	actor, err := m.actor()
	if err != nil {
		return err
	}

	if err := m.gateway.UpdateAvatar(ctx, actor.ID, url); err != nil {
		return m.rejected(err, actor, actor.ID, "set avatar")
	}

	snap := m.store.Dispatch(state.AvatarChanged{URL: url})
	if err := m.persister.Save(ctx, snap.CurrentUser); err != nil {
		m.log.Warn().Err(err).Int64("user_id", actor.ID).Msg("failed to persist session")
	}
	m.applied(actor, actor.ID, "set avatar").Msg("moderation applied")
	return m.reloader.Reload(ctx)
}

// RemoveUser asks the backend to remove the target. What removal means is
// the backend's decision, see ModerationOptions.Removal.
func (m *ModerationService) RemoveUser(ctx context.Context, targetID int64) error {
	actor, _, err := m.authorize(targetID)
	if err != nil {
		return err
	}

	if err := m.gateway.DeleteUser(ctx, targetID); err != nil {
		return m.rejected(err, actor, targetID, "remove user")
	}
	m.applied(actor, targetID, "remove user").Str("removal", string(m.opts.Removal)).Msg("moderation applied")
	return m.reloader.Reload(ctx)
}

// CreatePost publishes a post as the signed-in user.
func (m *ModerationService) CreatePost(ctx context.Context, title, content string) (int64, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}
	actor, err := m.actor()
	if err != nil {
		return 0, err
	}

	id, err := m.gateway.CreatePost(ctx, actor.ID, title, content)
	if err != nil {
		m.log.Warn().Err(err).Int64("user_id", actor.ID).Msg("create post rejected")
		return 0, err
	}
	m.log.Info().Int64("user_id", actor.ID).Int64("post_id", id).Msg("post created")
	return id, m.reloader.Reload(ctx)
}

func (m *ModerationService) actor() (*domain.User, error) {
	actor := m.store.Snapshot().CurrentUser
	if actor == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return actor, nil
}

// authorize returns the acting user and the snapshot the decision was made
// on. Privilege is the backend's call; only the optional local guard runs here.
func (m *ModerationService) authorize(targetID int64) (*domain.User, state.State, error) {
	snap := m.store.Snapshot()
	actor := snap.CurrentUser
	if actor == nil {
		return nil, snap, domain.ErrNotAuthenticated
	}
	if !m.opts.LocalTargetGuard {
		return actor, snap, nil
	}
	if targetID == actor.ID {
		return nil, snap, fmt.Errorf("%w: cannot moderate yourself", domain.ErrForbidden)
	}
	if target, ok := snap.FindUser(targetID); ok && target.Role.IsOwner() {
		return nil, snap, fmt.Errorf("%w: the owner cannot be moderated", domain.ErrForbidden)
	}
	return actor, snap, nil
}

func (m *ModerationService) rejected(err error, actor *domain.User, targetID int64, op string) error {
	m.log.Warn().Err(err).
		Int64("actor_id", actor.ID).
		Int64("target_id", targetID).
		Str("op", op).
		Msg("moderation rejected")
	return err
}

func (m *ModerationService) applied(actor *domain.User, targetID int64, op string) *zerolog.Event {
	return m.log.Info().
		Int64("actor_id", actor.ID).
		Int64("target_id", targetID).
		Str("op", op)
}
