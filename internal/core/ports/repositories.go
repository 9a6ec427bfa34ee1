package ports

import (
	"context"

	"zombiedigital/internal/core/domain"
)

type CanvasRepository interface {
	Create(ctx context.Context, canvas *domain.Canvas) error
	GetByID(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error)
	Update(ctx context.Context, canvas *domain.Canvas) error
	Delete(ctx context.Context, id domain.CanvasID) error
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error)
}

type MediaObjectRepository interface {
	Add(ctx context.Context, object *domain.MediaObject) error
	GetByID(ctx context.Context, id domain.MediaObjectID) (*domain.MediaObject, error)
	Update(ctx context.Context, object *domain.MediaObject) error
	Remove(ctx context.Context, id domain.MediaObjectID) error
	ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error)
	RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error
}

type AllowedUserRepository interface {
	Grant(ctx context.Context, grant *domain.AllowedUser) error
	Revoke(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error
	IsAllowed(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (bool, error)
	ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error)
	RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error
}

type ModCacheRepository interface {
	// Get returns domain.ErrModCacheMiss when no entry exists for the pair.
	Get(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (*domain.ModCacheEntry, error)
	Upsert(ctx context.Context, entry *domain.ModCacheEntry) error
	Delete(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) error
}
