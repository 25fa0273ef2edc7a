// Package main runs the portal: session and moderation core exposed as a JSON
// API for the rendering layer, backed by the community backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/api"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
	"github.com/russiantown/portal/internal/infrastructure/config"
	"github.com/russiantown/portal/internal/infrastructure/db/redis"
	"github.com/russiantown/portal/internal/infrastructure/gateway"
	"github.com/russiantown/portal/internal/infrastructure/http/handlers"
	"github.com/russiantown/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.New(gateway.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	checks := map[string]handlers.Pinger{"backend": gw}

	var persister ports.SessionPersister
	switch cfg.Session.Store {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer client.Close()
		persister = redis.NewSessionStore(client, redis.DefaultSessionKey, cfg.Session.TTL)
		checks["redis"] = handlers.PingFunc(redis.Ping(client))
	case "none", "":
	default:
		log.Fatal().Str("store", cfg.Session.Store).Msg("unknown SESSION_STORE")
	}

	removal := ports.RemovalMode(cfg.Moderation.RemovalMode)
	if !removal.Valid() {
		log.Fatal().Str("mode", cfg.Moderation.RemovalMode).Msg("unknown REMOVAL_MODE")
	}

	store := state.NewStore()
	loader := service.NewLoader(gw, store, log)
	session := service.NewSessionService(gw, store, loader, persister, log)
	moderation := service.NewModerationService(gw, store, loader, persister, service.ModerationOptions{
		LocalTargetGuard: cfg.Moderation.LocalTargetGuard,
		Removal:          removal,
	}, log)
	actions := service.NewActions(session, moderation, loader, removal, log)

	if _, err := session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}
	// A failed first load is not fatal; the rendering layer can retry.
	if out := actions.Reload(ctx); !out.OK {
		log.Warn().Err(out.Err()).Str("backend", cfg.Backend.URL).Msg("initial load failed")
	}

	e := api.NewRouter(api.Dependencies{
		Actions: actions,
		Session: session,
		Store:   store,
		Checks:  checks,
		Log:     log,
	})

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("backend", cfg.Backend.URL).Msg("portal listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdown(e.Shutdown, log)
}

func shutdown(fn func(context.Context) error, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("portal stopped")
}
