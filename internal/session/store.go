package session

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RevocationList remembers tokens that were logged out before they expired.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// FlashStore holds one-time notices keyed by a per-browser flash id.
type FlashStore interface {
	Push(ctx context.Context, id, message string) error
	Pop(ctx context.Context, id string) ([]string, error)
}

// RedisStore backs both the revocation list and the flash store.
type RedisStore struct {
	client   *redisv9.Client
	flashTTL time.Duration
}

func NewRedisStore(client *redisv9.Client, flashTTL time.Duration) *RedisStore {
	if flashTTL <= 0 {
		flashTTL = 10 * time.Minute
	}
	return &RedisStore{
		client:   client,
		flashTTL: flashTTL,
	}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token failed: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token failed: %w", err)
	}
	return exists > 0, nil
}

func (s *RedisStore) Push(ctx context.Context, id, message string) error {
	key := s.flashKey(id)
	if err := s.client.RPush(ctx, key, message).Err(); err != nil {
		return fmt.Errorf("redis push flash failed: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.flashTTL).Err(); err != nil {
		return fmt.Errorf("redis expire flash failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, id string) ([]string, error) {
	key := s.flashKey(id)
	messages, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read flashes failed: %w", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("redis delete flashes failed: %w", err)
	}
	return messages, nil
}

func (s *RedisStore) revokedKey(tokenID string) string {
	return fmt.Sprintf("session:revoked:%s", tokenID)
}

func (s *RedisStore) flashKey(id string) string {
	return fmt.Sprintf("flash:%s", id)
}
