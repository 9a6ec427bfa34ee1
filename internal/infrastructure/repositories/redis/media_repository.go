package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisMediaObjectRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisMediaObjectRepository(client *redis.Client) ports.MediaObjectRepository {
	return &RedisMediaObjectRepository{
		client: client,
		prefix: "zombie:media:",
	}
}

func (r *RedisMediaObjectRepository) mediaKey(id domain.MediaObjectID) string {
	return r.prefix + string(id)
}

func (r *RedisMediaObjectRepository) canvasKey(canvasID domain.CanvasID) string {
	return "zombie:canvas:" + string(canvasID) + ":media"
}

func (r *RedisMediaObjectRepository) Add(ctx context.Context, object *domain.MediaObject) error {
	data, err := json.Marshal(object)
	if err != nil {
		return fmt.Errorf("failed to marshal media object: %w", err)
	}

	if err := r.client.Set(ctx, r.mediaKey(object.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set media object in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, r.canvasKey(object.CanvasID), string(object.ID)).Err(); err != nil {
		return fmt.Errorf("failed to add media object to canvas set: %w", err)
	}

	return nil
}

func (r *RedisMediaObjectRepository) GetByID(ctx context.Context, id domain.MediaObjectID) (*domain.MediaObject, error) {
	data, err := r.client.Get(ctx, r.mediaKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrMediaObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media object from Redis: %w", err)
	}

	var object domain.MediaObject
	if err := json.Unmarshal([]byte(data), &object); err != nil {
		return nil, fmt.Errorf("failed to unmarshal media object: %w", err)
	}

	return &object, nil
}

func (r *RedisMediaObjectRepository) Update(ctx context.Context, object *domain.MediaObject) error {
	if _, err := r.GetByID(ctx, object.ID); err != nil {
		return err
	}

	data, err := json.Marshal(object)
	if err != nil {
		return fmt.Errorf("failed to marshal media object: %w", err)
	}

	if err := r.client.Set(ctx, r.mediaKey(object.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update media object in Redis: %w", err)
	}

	return nil
}

func (r *RedisMediaObjectRepository) Remove(ctx context.Context, id domain.MediaObjectID) error {
	object, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.client.SRem(ctx, r.canvasKey(object.CanvasID), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to remove media object from canvas set: %w", err)
	}

	if err := r.client.Del(ctx, r.mediaKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete media object from Redis: %w", err)
	}

	return nil
}

func (r *RedisMediaObjectRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error) {
	mediaIDs, err := r.client.SMembers(ctx, r.canvasKey(canvasID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get canvas media from Redis: %w", err)
	}

	var objects []*domain.MediaObject
	for _, mediaIDStr := range mediaIDs {
		object, err := r.GetByID(ctx, domain.MediaObjectID(mediaIDStr))
		if err != nil {
			// Skip objects that no longer exist
			continue
		}
		objects = append(objects, object)
	}

	return objects, nil
}

func (r *RedisMediaObjectRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	mediaIDs, err := r.client.SMembers(ctx, r.canvasKey(canvasID)).Result()
	if err != nil {
		return fmt.Errorf("failed to get canvas media from Redis: %w", err)
	}

	for _, mediaIDStr := range mediaIDs {
		if err := r.client.Del(ctx, r.mediaKey(domain.MediaObjectID(mediaIDStr))).Err(); err != nil {
			return fmt.Errorf("failed to delete media object from Redis: %w", err)
		}
	}

	if err := r.client.Del(ctx, r.canvasKey(canvasID)).Err(); err != nil {
		return fmt.Errorf("failed to delete canvas media set: %w", err)
	}

	return nil
}
