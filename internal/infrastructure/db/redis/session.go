package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/ports"
)

const (
	DefaultSessionKey = "portal:session"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// SessionStore keeps the signed-in user as a JSON blob under a single key.
// Every save refreshes the expiry.
type SessionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ ports.SessionPersister = (*SessionStore)(nil)

// NewSessionStore wraps client. Empty key and non-positive ttl fall back to
// the defaults.
func NewSessionStore(client *redis.Client, key string, ttl time.Duration) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{client: client, key: key, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Load returns (nil, nil) when no session is stored or it has expired.
func (s *SessionStore) Load(ctx context.Context) (*domain.User, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	return &user, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
