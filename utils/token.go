package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores revoked session tokens until they expire.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

type memoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryBlacklist() TokenBlacklist {
	return &memoryBlacklist{tokens: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for t, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, t)
		}
	}
	b.tokens[token] = now.Add(ttl)
	return nil
}

func (b *memoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiry, exists := b.tokens[token]
	return exists && time.Now().Before(expiry), nil
}

type redisBlacklist struct {
	rdb *redis.Client
}

func NewRedisBlacklist(rdb *redis.Client) TokenBlacklist {
	return &redisBlacklist{rdb: rdb}
}

func blacklistKey(token string) string { return "blacklist:" + token }

func (b *redisBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	return b.rdb.Set(ctx, blacklistKey(token), 1, ttl).Err()
}

func (b *redisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
