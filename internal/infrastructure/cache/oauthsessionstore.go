package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miasolution2024/omniconnect/internal/shared/biztime"
)

// SessionInfo is what an auth request leaves behind for its callback: the
// PKCE verifier (when the provider needs one) and the initiating operator.
type SessionInfo struct {
	Source       string    `json:"source"`
	CodeVerifier string    `json:"code_verifier,omitempty"`
	UserID       *uint     `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrSessionNotFound is returned when the state is unknown, expired, or was
// already consumed by an earlier callback.
var ErrSessionNotFound = errors.New("oauth session not found or expired")

// RedisOAuthSessionStore keeps pending link sessions in redis, keyed by the
// OAuth state parameter.
type RedisOAuthSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisOAuthSessionStore creates a session store. A ttl around 10 minutes
// matches how long providers keep authorization codes valid.
func NewRedisOAuthSessionStore(client *redis.Client, prefix string, ttl time.Duration) *RedisOAuthSessionStore {
	return &RedisOAuthSessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Save stores the session under the state with TTL.
func (s *RedisOAuthSessionStore) Save(ctx context.Context, state string, info SessionInfo) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	info.CreatedAt = biztime.NowUTC()

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal session info: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(state), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth session in redis: %w", err)
	}

	return nil
}

// Take retrieves and deletes the session for a state in one atomic GETDEL,
// so a state can only ever complete one callback.
func (s *RedisOAuthSessionStore) Take(ctx context.Context, state string) (*SessionInfo, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.buildKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve oauth session from redis: %w", err)
	}

	var info SessionInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session info: %w", err)
	}

	return &info, nil
}

func (s *RedisOAuthSessionStore) buildKey(state string) string {
	return s.prefix + state
}
