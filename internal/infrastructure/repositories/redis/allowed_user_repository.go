package redis

import (
	"context"
	"fmt"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisAllowedUserRepository stores grants as one hash per canvas: field is
// the granted user id, value the RFC3339 grant time.
type RedisAllowedUserRepository struct {
	client *redis.Client
}

func NewRedisAllowedUserRepository(client *redis.Client) ports.AllowedUserRepository {
	return &RedisAllowedUserRepository{client: client}
}

func (r *RedisAllowedUserRepository) grantsKey(canvasID domain.CanvasID) string {
	return "zombie:canvas:" + string(canvasID) + ":allowed"
}

func (r *RedisAllowedUserRepository) Grant(ctx context.Context, grant *domain.AllowedUser) error {
	value := grant.GrantedAt.UTC().Format(time.RFC3339Nano)
	if err := r.client.HSet(ctx, r.grantsKey(grant.CanvasID), string(grant.UserID), value).Err(); err != nil {
		return fmt.Errorf("failed to set grant in Redis: %w", err)
	}
	return nil
}

func (r *RedisAllowedUserRepository) Revoke(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error {
	removed, err := r.client.HDel(ctx, r.grantsKey(canvasID), string(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete grant from Redis: %w", err)
	}
	if removed == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

func (r *RedisAllowedUserRepository) IsAllowed(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (bool, error) {
	allowed, err := r.client.HExists(ctx, r.grantsKey(canvasID), string(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check grant in Redis: %w", err)
	}
	return allowed, nil
}

func (r *RedisAllowedUserRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error) {
	fields, err := r.client.HGetAll(ctx, r.grantsKey(canvasID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get grants from Redis: %w", err)
	}

	var grants []*domain.AllowedUser
	for userID, grantedAtStr := range fields {
		grantedAt, err := time.Parse(time.RFC3339Nano, grantedAtStr)
		if err != nil {
			// Skip malformed entries rather than failing the whole listing
			continue
		}
		grants = append(grants, &domain.AllowedUser{
			CanvasID:  canvasID,
			UserID:    domain.UserID(userID),
			GrantedAt: grantedAt,
		})
	}

	return grants, nil
}

func (r *RedisAllowedUserRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	if err := r.client.Del(ctx, r.grantsKey(canvasID)).Err(); err != nil {
		return fmt.Errorf("failed to delete canvas grants from Redis: %w", err)
	}
	return nil
}
