package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pricehive/pricehive/pkg/redis"
)

// ErrSessionNotFound means the one-time session token is unknown,
// expired, or was already consumed.
var ErrSessionNotFound = errors.New("session not found")

// GoogleSessionRepository stores the one-time session tokens minted
// during the Google OAuth callback. A token maps to a user ID and is
// consumed exactly once.
type GoogleSessionRepository interface {
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

const googleSessionPrefix = "google_session:"

// RedisGoogleSessionRepository implements GoogleSessionRepository on
// Redis. Expiry is handled by key TTL; single use by GETDEL.
type RedisGoogleSessionRepository struct {
	client *redis.Client
}

// NewRedisGoogleSessionRepository creates a new RedisGoogleSessionRepository
func NewRedisGoogleSessionRepository(client *redis.Client) *RedisGoogleSessionRepository {
	return &RedisGoogleSessionRepository{client: client}
}

// Create stores the token with the given time to live
func (r *RedisGoogleSessionRepository) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	key := googleSessionPrefix + token
	if err := r.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes the token. A second call with
// the same token returns ErrSessionNotFound.
func (r *RedisGoogleSessionRepository) Consume(ctx context.Context, token string) (string, error) {
	key := googleSessionPrefix + token
	userID, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to consume session: %w", err)
	}
	return userID, nil
}
