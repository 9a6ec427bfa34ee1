package changefeed

import (
	"context"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
)

// MemoryChangeFeed is an in-process fan-out used when Redis is disabled and in
// tests. Publish order is preserved per canvas because Publish holds the lock
// while forwarding to every subscriber.
type MemoryChangeFeed struct {
	mu          sync.Mutex
	subscribers map[domain.CanvasID]map[int]chan domain.ChangeEvent
	nextID      int
}

func NewMemoryChangeFeed() *MemoryChangeFeed {
	return &MemoryChangeFeed{
		subscribers: make(map[domain.CanvasID]map[int]chan domain.ChangeEvent),
	}
}

func (f *MemoryChangeFeed) Publish(ctx context.Context, event *domain.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subscribers[event.CanvasID] {
		select {
		case ch <- *event:
		default:
			// A subscriber that stopped draining loses events rather than
			// stalling every other viewer of the canvas.
		}
	}

	return nil
}

func (f *MemoryChangeFeed) Subscribe(ctx context.Context, canvasID domain.CanvasID) (<-chan domain.ChangeEvent, ports.UnsubscribeFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byID, exists := f.subscribers[canvasID]
	if !exists {
		byID = make(map[int]chan domain.ChangeEvent)
		f.subscribers[canvasID] = byID
	}

	id := f.nextID
	f.nextID++
	events := make(chan domain.ChangeEvent, subscriberBuffer)
	byID[id] = events

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subscribers[canvasID], id)
			if len(f.subscribers[canvasID]) == 0 {
				delete(f.subscribers, canvasID)
			}
			close(events)
		})
	}

	return events, unsubscribe, nil
}

// SubscriberCount reports live subscriptions for a canvas. Used by tests to
// assert teardown.
func (f *MemoryChangeFeed) SubscriberCount(canvasID domain.CanvasID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[canvasID])
}
