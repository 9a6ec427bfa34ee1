package ports

import (
	"context"

	"zombiedigital/internal/core/domain"
)

// UnsubscribeFunc tears down one subscription. It is safe to call more than
// once; only the first call has effect.
type UnsubscribeFunc func()

// ChangeFeed delivers media-object mutations to live viewers of a canvas. The
// push mechanism (redis Pub/Sub, in-process fan-out) is an implementation
// detail; consumers only see a channel of events in publish order.
type ChangeFeed interface {
	Publish(ctx context.Context, event *domain.ChangeEvent) error
	Subscribe(ctx context.Context, canvasID domain.CanvasID) (<-chan domain.ChangeEvent, UnsubscribeFunc, error)
}
