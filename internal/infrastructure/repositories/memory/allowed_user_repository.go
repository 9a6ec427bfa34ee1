package memory

import (
	"context"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
)

type MemoryAllowedUserRepository struct {
	grants map[domain.CanvasID]map[domain.UserID]*domain.AllowedUser
	mu     sync.RWMutex
}

func NewMemoryAllowedUserRepository() ports.AllowedUserRepository {
	return &MemoryAllowedUserRepository{
		grants: make(map[domain.CanvasID]map[domain.UserID]*domain.AllowedUser),
	}
}

func (r *MemoryAllowedUserRepository) Grant(ctx context.Context, grant *domain.AllowedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, exists := r.grants[grant.CanvasID]
	if !exists {
		byUser = make(map[domain.UserID]*domain.AllowedUser)
		r.grants[grant.CanvasID] = byUser
	}
	byUser[grant.UserID] = grant

	return nil
}

func (r *MemoryAllowedUserRepository) Revoke(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser, exists := r.grants[canvasID]
	if !exists {
		return domain.ErrGrantNotFound
	}
	if _, exists := byUser[userID]; !exists {
		return domain.ErrGrantNotFound
	}

	delete(byUser, userID)
	return nil
}

func (r *MemoryAllowedUserRepository) IsAllowed(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser, exists := r.grants[canvasID]
	if !exists {
		return false, nil
	}
	_, allowed := byUser[userID]
	return allowed, nil
}

func (r *MemoryAllowedUserRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var grants []*domain.AllowedUser
	for _, grant := range r.grants[canvasID] {
		grants = append(grants, grant)
	}

	return grants, nil
}

func (r *MemoryAllowedUserRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.grants, canvasID)
	return nil
}
