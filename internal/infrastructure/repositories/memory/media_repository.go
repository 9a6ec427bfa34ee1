package memory

import (
	"context"
	"fmt"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
)

type MemoryMediaObjectRepository struct {
	objects map[domain.MediaObjectID]*domain.MediaObject
	mu      sync.RWMutex
}

func NewMemoryMediaObjectRepository() ports.MediaObjectRepository {
	return &MemoryMediaObjectRepository{
		objects: make(map[domain.MediaObjectID]*domain.MediaObject),
	}
}

func (r *MemoryMediaObjectRepository) Add(ctx context.Context, object *domain.MediaObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[object.ID]; exists {
		return fmt.Errorf("media object already exists: %s", object.ID)
	}

	r.objects[object.ID] = object
	return nil
}

func (r *MemoryMediaObjectRepository) GetByID(ctx context.Context, id domain.MediaObjectID) (*domain.MediaObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	object, exists := r.objects[id]
	if !exists {
		return nil, domain.ErrMediaObjectNotFound
	}

	return object, nil
}

func (r *MemoryMediaObjectRepository) Update(ctx context.Context, object *domain.MediaObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[object.ID]; !exists {
		return domain.ErrMediaObjectNotFound
	}

	r.objects[object.ID] = object
	return nil
}

func (r *MemoryMediaObjectRepository) Remove(ctx context.Context, id domain.MediaObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[id]; !exists {
		return domain.ErrMediaObjectNotFound
	}

	delete(r.objects, id)
	return nil
}

func (r *MemoryMediaObjectRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var objects []*domain.MediaObject
	for _, object := range r.objects {
		if object.CanvasID == canvasID {
			objects = append(objects, object)
		}
	}

	return objects, nil
}

func (r *MemoryMediaObjectRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, object := range r.objects {
		if object.CanvasID == canvasID {
			delete(r.objects, id)
		}
	}

	return nil
}
