package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/infrastructure/metrics"
)

// NoticeLevel is the severity of a transient notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, non-fatal message for the person at the screen.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Outcome is the result of one user-initiated action. OK is true when the
// backend accepted the action, even if the reload that followed failed.
type Outcome struct {
	OK      bool     `json:"ok"`
	Notices []Notice `json:"notices"`

	err error
}

// Err returns the cause of a failed action, or nil.
func (o Outcome) Err() error {
	return o.err
}

// Actions is what the rendering layer invokes. Every error is caught here and
// turned into a Notice; nothing is retried.
type Actions struct {
	session    ports.SessionService
	moderation ports.ModerationService
	reloader   ports.Reloader
	removal    ports.RemovalMode
	log        zerolog.Logger
}

func NewActions(
	session ports.SessionService,
	moderation ports.ModerationService,
	reloader ports.Reloader,
	removal ports.RemovalMode,
	log zerolog.Logger,
) *Actions {
	return &Actions{
		session:    session,
		moderation: moderation,
		reloader:   reloader,
		removal:    removal,
		log:        log,
	}
}

func (a *Actions) Reload(ctx context.Context) Outcome {
	err := a.reloader.Reload(ctx)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("reload", "error").Inc()
		return Outcome{Notices: []Notice{errorNotice("failed to load data")}, err: err}
	}
	metrics.ActionsTotal.WithLabelValues("reload", "success").Inc()
	return Outcome{OK: true, Notices: []Notice{}}
}

func (a *Actions) Login(ctx context.Context, creds ports.Credentials) Outcome {
	return a.run("login", "login failed", func() (string, error) {
		user, err := a.session.Login(ctx, creds)
		if user == nil {
			return "", err
		}
		return fmt.Sprintf("Welcome, %s!", user.Username), err
	})
}

func (a *Actions) Register(ctx context.Context, in ports.RegisterInput) Outcome {
	return a.run("register", "registration failed", func() (string, error) {
		_, err := a.session.Register(ctx, in)
		return "Registration complete, you can now sign in", err
	})
}

func (a *Actions) Logout(ctx context.Context) Outcome {
	a.session.Logout(ctx)
	metrics.ActionsTotal.WithLabelValues("logout", "success").Inc()
	return Outcome{OK: true, Notices: []Notice{}}
}

func (a *Actions) CreatePost(ctx context.Context, title, content string) Outcome {
	return a.run("create_post", "failed to create post", func() (string, error) {
		_, err := a.moderation.CreatePost(ctx, title, content)
		return "Post created", err
	})
}

func (a *Actions) SetAvatar(ctx context.Context, url string) Outcome {
	return a.run("set_avatar", "failed to update avatar", func() (string, error) {
		return "Avatar updated", a.moderation.SetAvatar(ctx, url)
	})
}

func (a *Actions) SetRole(ctx context.Context, targetID int64, role domain.Role) Outcome {
	return a.run("set_role", "failed to assign role", func() (string, error) {
		return "Role assigned", a.moderation.SetRole(ctx, targetID, role)
	})
}

func (a *Actions) SetFaction(ctx context.Context, targetID int64, faction string) Outcome {
	return a.run("set_faction", "failed to assign faction", func() (string, error) {
		return "Faction assigned", a.moderation.SetFaction(ctx, targetID, faction)
	})
}

func (a *Actions) ToggleBan(ctx context.Context, targetID int64) Outcome {
	return a.run("toggle_ban", "failed to change ban status", func() (string, error) {
		_, err := a.moderation.ToggleBan(ctx, targetID)
		return "Ban status changed", err
	})
}

func (a *Actions) ToggleMute(ctx context.Context, targetID int64) Outcome {
	return a.run("toggle_mute", "failed to change mute status", func() (string, error) {
		_, err := a.moderation.ToggleMute(ctx, targetID)
		return "Mute status changed", err
	})
}

func (a *Actions) RemoveUser(ctx context.Context, targetID int64) Outcome {
	success := "User blocked"
	if a.removal == ports.RemovalHard {
		success = "User deleted"
	}
	return a.run("remove_user", "failed to remove user", func() (string, error) {
		return success, a.moderation.RemoveUser(ctx, targetID)
	})
}

// run executes fn and turns its result into an Outcome. fn returns the
// success message; a reload failure after an accepted action yields both the
// success notice and a load error notice.
func (a *Actions) run(action, failure string, fn func() (string, error)) Outcome {
	success, err := fn()

	switch {
	case err == nil:
		metrics.ActionsTotal.WithLabelValues(action, "success").Inc()
		return Outcome{OK: true, Notices: []Notice{successNotice(success)}}

	case errors.Is(err, domain.ErrReload):
		metrics.ActionsTotal.WithLabelValues(action, "success").Inc()
		a.log.Warn().Err(err).Str("action", action).Msg("action applied but reload failed")
		return Outcome{
			OK:      true,
			Notices: []Notice{successNotice(success), errorNotice("failed to load data")},
		}

	default:
		metrics.ActionsTotal.WithLabelValues(action, "error").Inc()
		a.log.Warn().Err(err).Str("action", action).Msg("action failed")
		return Outcome{Notices: []Notice{errorNotice(failureMessage(err, failure))}, err: err}
	}
}

func failureMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, domain.ErrAuth):
		return domain.ErrorMessage(err)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "sign in first"
	case errors.Is(err, domain.ErrForbidden):
		return "action not allowed"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user not found"
	default:
		return fallback
	}
}

func successNotice(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func errorNotice(msg string) Notice   { return Notice{Level: NoticeError, Message: msg} }
