package memory

import (
	"context"
	"fmt"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
)

type MemoryCanvasRepository struct {
	canvases map[domain.CanvasID]*domain.Canvas
	mu       sync.RWMutex
}

func NewMemoryCanvasRepository() ports.CanvasRepository {
	return &MemoryCanvasRepository{
		canvases: make(map[domain.CanvasID]*domain.Canvas),
	}
}

func (r *MemoryCanvasRepository) Create(ctx context.Context, canvas *domain.Canvas) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.canvases[canvas.ID]; exists {
		return fmt.Errorf("canvas already exists: %s", canvas.ID)
	}

	r.canvases[canvas.ID] = canvas
	return nil
}

func (r *MemoryCanvasRepository) GetByID(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	canvas, exists := r.canvases[id]
	if !exists {
		return nil, domain.ErrCanvasNotFound
	}

	return canvas, nil
}

func (r *MemoryCanvasRepository) Update(ctx context.Context, canvas *domain.Canvas) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.canvases[canvas.ID]; !exists {
		return domain.ErrCanvasNotFound
	}

	r.canvases[canvas.ID] = canvas
	return nil
}

func (r *MemoryCanvasRepository) Delete(ctx context.Context, id domain.CanvasID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.canvases[id]; !exists {
		return domain.ErrCanvasNotFound
	}

	delete(r.canvases, id)
	return nil
}

func (r *MemoryCanvasRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []*domain.Canvas
	for _, canvas := range r.canvases {
		if canvas.OwnerID == ownerID {
			owned = append(owned, canvas)
		}
	}

	return owned, nil
}
