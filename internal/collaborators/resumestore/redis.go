// internal/collaborators/resumestore/redis.go
package resumestore

import (
	"context"
	"fmt"
	"time"

	"candidate-intake/internal/common/database"
)

// RedisStore keeps file bodies in Redis with a TTL so abandoned sessions
// clean themselves up. Needed when wizard sessions can move between hosts.
type RedisStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

// NewRedisStore creates a store. A TTL of 0 falls back to 2 hours.
func NewRedisStore(redis *database.RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func fileKey(handle string) string {
	return "intake:resume:file:" + handle
}

func nameKey(handle string) string {
	return "intake:resume:name:" + handle
}

// Put stores the file body and display name under the handle.
func (s *RedisStore) Put(ctx context.Context, handle, name string, data []byte) error {
	if err := s.redis.SetBytes(ctx, fileKey(handle), data, s.ttl); err != nil {
		return fmt.Errorf("store resume body: %w", err)
	}
	if err := s.redis.SetBytes(ctx, nameKey(handle), []byte(name), s.ttl); err != nil {
		return fmt.Errorf("store resume name: %w", err)
	}
	return nil
}

// Get returns the stored body and file name.
func (s *RedisStore) Get(ctx context.Context, handle string) ([]byte, string, error) {
	data, err := s.redis.GetBytes(ctx, fileKey(handle))
	if err != nil {
		return nil, "", fmt.Errorf("load resume body: %w", err)
	}
	name, err := s.redis.GetBytes(ctx, nameKey(handle))
	if err != nil {
		return nil, "", fmt.Errorf("load resume name: %w", err)
	}
	return data, string(name), nil
}

// Delete drops both keys for the handle.
func (s *RedisStore) Delete(ctx context.Context, handle string) error {
	return s.redis.Del(ctx, fileKey(handle), nameKey(handle))
}
