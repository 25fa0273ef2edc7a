package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("expected loopback listen address, got %q", cfg.Addr())
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("expected 10s backend timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Session.Store != "none" {
		t.Errorf("expected in-memory session by default, got %q", cfg.Session.Store)
	}
	if cfg.Moderation.RemovalMode != "soft" || cfg.Moderation.LocalTargetGuard {
		t.Errorf("unexpected moderation defaults: %+v", cfg.Moderation)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:9000/fn")
	t.Setenv("BACKEND_TIMEOUT", "250ms")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOCAL_TARGET_GUARD", "true")
	t.Setenv("REMOVAL_MODE", "hard")
	t.Setenv("LISTEN_HOST", "0.0.0.0")

	cfg := Load()

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected listen address %q", cfg.Addr())
	}
	if cfg.Backend.URL != "http://backend:9000/fn" || cfg.Backend.Timeout != 250*time.Millisecond {
		t.Errorf("unexpected backend config: %+v", cfg.Backend)
	}
	if cfg.Session.Store != "redis" || cfg.Redis.DB != 3 {
		t.Errorf("unexpected session config: %+v / %+v", cfg.Session, cfg.Redis)
	}
	if !cfg.Moderation.LocalTargetGuard || cfg.Moderation.RemovalMode != "hard" {
		t.Errorf("unexpected moderation config: %+v", cfg.Moderation)
	}
}

func TestLoad_InvalidPanics(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")

	defer func() {
		if recover() == nil {
			t.Error("expected panic on invalid duration")
		}
	}()
	Load()
}

func TestLoadBackend_Defaults(t *testing.T) {
	cfg := LoadBackend()

	if cfg.Port != "8090" || cfg.Store != "sqlite" || cfg.AdminCode != "99797" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SQLite.Path == "" || cfg.Mongo.Database == "" {
		t.Errorf("store defaults missing: %+v", cfg)
	}
}
