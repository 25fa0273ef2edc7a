// Package main runs the reference community backend for local development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/infrastructure/config"
	"github.com/russiantown/portal/internal/infrastructure/db/mongo"
	"github.com/russiantown/portal/internal/infrastructure/db/sqlite"
	apphttp "github.com/russiantown/portal/internal/infrastructure/http"
	"github.com/russiantown/portal/internal/infrastructure/http/handlers"
	"github.com/russiantown/portal/pkg/logger"
)

func main() {
	cfg := config.LoadBackend()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "devbackend",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store backend.Store
	switch cfg.Store {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("failed to open sqlite")
		}
		defer db.Close()
		store = db
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		ms := mongo.NewStore(db)
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to create mongo indexes")
		}
		store = ms
	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE")
	}

	removal := ports.RemovalMode(cfg.RemovalMode)
	if !removal.Valid() {
		log.Fatal().Str("mode", cfg.RemovalMode).Msg("unknown REMOVAL_MODE")
	}

	svc := backend.NewService(store, backend.Options{AdminCode: cfg.AdminCode, Removal: removal}, log)
	e := apphttp.NewRouter(backend.NewHandler(svc, log), map[string]handlers.Pinger{cfg.Store: store})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("backend listening on " + apphttp.EndpointPath)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
