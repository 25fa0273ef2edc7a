package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the portal process configuration.
type Config struct {
	// Host is the listen address. The API acts as whoever is signed in, so
	// it stays on loopback unless told otherwise.
	Host     string `env:"LISTEN_HOST, default=127.0.0.1"`
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend    BackendClientConfig
	Session    SessionConfig
	Redis      RedisConfig
	Moderation ModerationConfig
}

// Addr is the host:port the portal listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// BackendClientConfig points the portal at the community backend.
type BackendClientConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8090/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

// SessionConfig selects where the signed-in user survives restarts:
// "none" keeps it in memory only, "redis" stores it in Redis.
type SessionConfig struct {
	Store string        `env:"SESSION_STORE, default=none"`
	TTL   time.Duration `env:"SESSION_TTL,   default=168h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type ModerationConfig struct {
	// RemovalMode is what the backend does on delete: "soft" or "hard".
	RemovalMode      string `env:"REMOVAL_MODE,       default=soft"`
	LocalTargetGuard bool   `env:"LOCAL_TARGET_GUARD, default=false"`
}

// BackendConfig is the reference backend process configuration.
type BackendConfig struct {
	Port        string `env:"PORT,         default=8090"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	Store       string `env:"STORE,        default=sqlite"`
	AdminCode   string `env:"ADMIN_CODE,   default=99797"`
	RemovalMode string `env:"REMOVAL_MODE, default=soft"`

	SQLite SQLiteConfig
	Mongo  MongoConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=portal.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=russian_town"`
}

// Load reads the portal configuration from environment variables.
func Load() *Config {
	var cfg Config
	mustProcess(&cfg)
	return &cfg
}

// LoadBackend reads the reference backend configuration.
func LoadBackend() *BackendConfig {
	var cfg BackendConfig
	mustProcess(&cfg)
	return &cfg
}

func mustProcess(cfg any) {
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
}
