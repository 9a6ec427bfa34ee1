package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisModCacheRepository stores one key per (broadcaster, moderator) pair.
// Concurrent upserts for the same pair are a benign race: last writer wins and
// the stored value is advisory either way.
type RedisModCacheRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisModCacheRepository creates the repository. Entries expire from
// Redis after ttl; a ttl of zero keeps them until deleted.
func NewRedisModCacheRepository(client *redis.Client, ttl time.Duration) ports.ModCacheRepository {
	return &RedisModCacheRepository{
		client: client,
		prefix: "zombie:modcache:",
		ttl:    ttl,
	}
}

func (r *RedisModCacheRepository) pairKey(broadcasterID domain.BroadcasterID, moderatorID domain.UserID) string {
	return r.prefix + string(broadcasterID) + ":" + string(moderatorID)
}

func (r *RedisModCacheRepository) Get(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (*domain.ModCacheEntry, error) {
	data, err := r.client.Get(ctx, r.pairKey(broadcasterID, moderatorID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrModCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mod cache entry from Redis: %w", err)
	}

	var entry domain.ModCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mod cache entry: %w", err)
	}

	return &entry, nil
}

func (r *RedisModCacheRepository) Upsert(ctx context.Context, entry *domain.ModCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal mod cache entry: %w", err)
	}

	// An expired key and a stale entry both send the caller back to Helix,
	// so the expiry only bounds how long dead pairs linger in Redis.
	key := r.pairKey(entry.BroadcasterID, entry.ModeratorID)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set mod cache entry in Redis: %w", err)
	}

	return nil
}

func (r *RedisModCacheRepository) Delete(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) error {
	if err := r.client.Del(ctx, r.pairKey(broadcasterID, moderatorID)).Err(); err != nil {
		return fmt.Errorf("failed to delete mod cache entry from Redis: %w", err)
	}
	return nil
}
