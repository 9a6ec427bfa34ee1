package memory

import (
	"context"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
)

type modCachePair struct {
	broadcasterID domain.BroadcasterID
	moderatorID   domain.UserID
}

type MemoryModCacheRepository struct {
	entries map[modCachePair]*domain.ModCacheEntry
	mu      sync.RWMutex
}

func NewMemoryModCacheRepository() ports.ModCacheRepository {
	return &MemoryModCacheRepository{
		entries: make(map[modCachePair]*domain.ModCacheEntry),
	}
}

func (r *MemoryModCacheRepository) Get(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (*domain.ModCacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[modCachePair{broadcasterID, moderatorID}]
	if !exists {
		return nil, domain.ErrModCacheMiss
	}

	return entry, nil
}

func (r *MemoryModCacheRepository) Upsert(ctx context.Context, entry *domain.ModCacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[modCachePair{entry.BroadcasterID, entry.ModeratorID}] = entry
	return nil
}

func (r *MemoryModCacheRepository) Delete(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, modCachePair{broadcasterID, moderatorID})
	return nil
}
