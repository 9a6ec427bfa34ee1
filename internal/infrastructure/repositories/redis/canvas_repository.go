package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisCanvasRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisCanvasRepository(client *redis.Client) ports.CanvasRepository {
	return &RedisCanvasRepository{
		client: client,
		prefix: "zombie:canvas:",
	}
}

func (r *RedisCanvasRepository) canvasKey(id domain.CanvasID) string {
	return r.prefix + string(id)
}

func (r *RedisCanvasRepository) ownerKey(ownerID domain.UserID) string {
	return "zombie:user:" + string(ownerID) + ":canvases"
}

func (r *RedisCanvasRepository) Create(ctx context.Context, canvas *domain.Canvas) error {
	data, err := json.Marshal(canvas)
	if err != nil {
		return fmt.Errorf("failed to marshal canvas: %w", err)
	}

	key := r.canvasKey(canvas.ID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set canvas in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.ownerKey(canvas.OwnerID), string(canvas.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add canvas to owner set: %w", err)
	}

	return nil
}

func (r *RedisCanvasRepository) GetByID(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error) {
	key := r.canvasKey(id)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, domain.ErrCanvasNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get canvas from Redis: %w", err)
	}

	var canvas domain.Canvas
	if err := json.Unmarshal([]byte(data), &canvas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal canvas: %w", err)
	}

	return &canvas, nil
}

func (r *RedisCanvasRepository) Update(ctx context.Context, canvas *domain.Canvas) error {
	// Check if canvas exists
	if _, err := r.GetByID(ctx, canvas.ID); err != nil {
		return err
	}

	data, err := json.Marshal(canvas)
	if err != nil {
		return fmt.Errorf("failed to marshal canvas: %w", err)
	}

	key := r.canvasKey(canvas.ID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update canvas in Redis: %w", err)
	}

	return nil
}

func (r *RedisCanvasRepository) Delete(ctx context.Context, id domain.CanvasID) error {
	canvas, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.SRem(ctx, r.ownerKey(canvas.OwnerID), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove canvas from owner set: %w", err)
	}

	if err := r.client.Del(ctx, r.canvasKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete canvas from Redis: %w", err)
	}

	return nil
}

func (r *RedisCanvasRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error) {
	canvasIDs, err := r.client.SMembers(ctx, r.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get owner canvases from Redis: %w", err)
	}

	var canvases []*domain.Canvas
	for _, canvasIDStr := range canvasIDs {
		canvas, err := r.GetByID(ctx, domain.CanvasID(canvasIDStr))
		if err != nil {
			// Skip canvases that no longer exist
			continue
		}
		canvases = append(canvases, canvas)
	}

	return canvases, nil
}
