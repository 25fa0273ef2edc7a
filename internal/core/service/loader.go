package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/state"
	"github.com/russiantown/portal/internal/infrastructure/metrics"
)

// Loader refreshes the user and post collections from the backend.
type Loader struct {
	gateway ports.Gateway
	store   *state.Store
	log     zerolog.Logger
}

func NewLoader(gateway ports.Gateway, store *state.Store, log zerolog.Logger) *Loader {
	return &Loader{gateway: gateway, store: store, log: log}
}

// Reload fetches users and posts concurrently and applies both only when both
// succeed. The first failure cancels the other request.
func (l *Loader) Reload(ctx context.Context) error {
	l.store.Dispatch(state.LoadStarted{})

	var (
		users []domain.User
		posts []domain.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := l.gateway.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		users = u
		return nil
	})
	g.Go(func() error {
		p, err := l.gateway.ListPosts(gctx)
		if err != nil {
			return fmt.Errorf("load posts: %w", err)
		}
		posts = p
		return nil
	})

	if err := g.Wait(); err != nil {
		l.store.Dispatch(state.LoadFailed{})
		metrics.ReloadsTotal.WithLabelValues("error").Inc()
		l.log.Error().Err(err).Msg("reload failed")
		return fmt.Errorf("%w: %w", domain.ErrReload, err)
	}

	l.store.Dispatch(state.LoadSucceeded{Users: users, Posts: posts})
	metrics.ReloadsTotal.WithLabelValues("success").Inc()
	l.log.Debug().Int("users", len(users)).Int("posts", len(posts)).Msg("reload complete")
	return nil
}
