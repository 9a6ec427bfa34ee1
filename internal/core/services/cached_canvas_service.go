package services

import (
	"context"
	"fmt"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/pkg/cache"
)

// CachedCanvasService wraps CanvasService with a read-through cache on canvas
// records. Canvas settings change rarely compared to how often overlay clients
// and access checks read them. Media lists are never cached; the change feed
// is the source of truth for live state.
type CachedCanvasService struct {
	baseService ports.CanvasService
	cache       *cache.CacheWithFallback
	canvasTTL   time.Duration
}

func NewCachedCanvasService(baseService ports.CanvasService, canvasTTL time.Duration) ports.CanvasService {
	return &CachedCanvasService{
		baseService: baseService,
		cache:       cache.NewCacheWithFallback(canvasTTL),
		canvasTTL:   canvasTTL,
	}
}

func canvasCacheKey(id domain.CanvasID) string {
	return fmt.Sprintf("canvas:%s", id)
}

func (s *CachedCanvasService) CreateCanvas(ctx context.Context, owner *domain.User, name string, resolution domain.Resolution) (*domain.Canvas, error) {
	return s.baseService.CreateCanvas(ctx, owner, name, resolution)
}

func (s *CachedCanvasService) GetCanvas(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error) {
	value, err := s.cache.GetOrSet(ctx, canvasCacheKey(id), func(ctx context.Context) (interface{}, error) {
		return s.baseService.GetCanvas(ctx, id)
	}, s.canvasTTL)
	if err != nil {
		return nil, err
	}
	return value.(*domain.Canvas), nil
}

func (s *CachedCanvasService) ListCanvases(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error) {
	return s.baseService.ListCanvases(ctx, ownerID)
}

func (s *CachedCanvasService) UpdateSettings(ctx context.Context, id domain.CanvasID, settings domain.CanvasSettings) (*domain.Canvas, error) {
	canvas, err := s.baseService.UpdateSettings(ctx, id, settings)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(canvasCacheKey(id))
	return canvas, nil
}

func (s *CachedCanvasService) DeleteCanvas(ctx context.Context, id domain.CanvasID) error {
	if err := s.baseService.DeleteCanvas(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(canvasCacheKey(id))
	return nil
}

func (s *CachedCanvasService) AddMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, object *domain.MediaObject) (*domain.MediaObject, error) {
	return s.baseService.AddMedia(ctx, actor, canvasID, object)
}

func (s *CachedCanvasService) UpdateMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID, update domain.MediaObjectUpdate) (*domain.MediaObject, error) {
	return s.baseService.UpdateMedia(ctx, actor, canvasID, id, update)
}

func (s *CachedCanvasService) RemoveMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID) error {
	return s.baseService.RemoveMedia(ctx, actor, canvasID, id)
}

func (s *CachedCanvasService) ListMedia(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error) {
	return s.baseService.ListMedia(ctx, canvasID)
}

func (s *CachedCanvasService) GrantAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (*domain.AllowedUser, error) {
	return s.baseService.GrantAccess(ctx, canvasID, userID)
}

func (s *CachedCanvasService) RevokeAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error {
	return s.baseService.RevokeAccess(ctx, canvasID, userID)
}

func (s *CachedCanvasService) ListAllowedUsers(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error) {
	return s.baseService.ListAllowedUsers(ctx, canvasID)
}

// Stop stops the cache cleanup goroutine.
func (s *CachedCanvasService) Stop() {
	s.cache.Stop()
}
