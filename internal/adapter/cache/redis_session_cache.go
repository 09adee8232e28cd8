package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/analytiq-hub/docrouter-tenants/internal/repository"
	"github.com/analytiq-hub/docrouter-tenants/internal/session"
)

// RedisSessionCache implements SessionCache backed by Redis.
type RedisSessionCache struct {
	client redis.UniversalClient
}

var _ repository.SessionCache = (*RedisSessionCache)(nil)

// NewRedisSessionCache constructs a Redis-backed session cache.
func NewRedisSessionCache(client redis.UniversalClient) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

// Save stores the resolved session under the token digest with TTL.
func (s *RedisSessionCache) Save(ctx context.Context, key string, sess session.AppSession, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Get loads and decodes a cached session. A miss returns (nil, nil).
func (s *RedisSessionCache) Get(ctx context.Context, key string) (*session.AppSession, error) {
	bytes, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess session.AppSession
	if err := json.Unmarshal(bytes, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a cached session.
func (s *RedisSessionCache) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
