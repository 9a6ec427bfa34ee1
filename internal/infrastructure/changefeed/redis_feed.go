package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const subscriberBuffer = 64

// RedisChangeFeed relays media-object mutations through one Redis Pub/Sub
// channel per canvas. Redis delivers messages to each subscriber in publish
// order, which is exactly the per-canvas ordering the relay promises.
type RedisChangeFeed struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

func NewRedisChangeFeed(client *redis.Client, logger *zap.SugaredLogger) *RedisChangeFeed {
	return &RedisChangeFeed{
		client: client,
		logger: logger,
	}
}

func channelName(canvasID domain.CanvasID) string {
	return "zombie:canvas:" + string(canvasID) + ":events"
}

func (f *RedisChangeFeed) Publish(ctx context.Context, event *domain.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := f.client.Publish(ctx, channelName(event.CanvasID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	f.logger.Debugw("published change event",
		"canvas_id", event.CanvasID,
		"type", event.Type,
	)

	return nil
}

// Subscribe opens a Pub/Sub subscription for one canvas and pumps decoded
// events into the returned channel. The channel closes after unsubscribe or
// when ctx is cancelled.
func (f *RedisChangeFeed) Subscribe(ctx context.Context, canvasID domain.CanvasID) (<-chan domain.ChangeEvent, ports.UnsubscribeFunc, error) {
	pubsub := f.client.Subscribe(ctx, channelName(canvasID))

	// Force the subscription to be established before we report success; a
	// stream must never start half-open.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	events := make(chan domain.ChangeEvent, subscriberBuffer)
	done := make(chan struct{})

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}

	go func() {
		defer close(events)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				unsubscribe()
				return
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warnw("failed to unmarshal change event",
						"canvas_id", canvasID,
						"error", err,
					)
					continue
				}
				select {
				case events <- event:
				case <-done:
					return
				case <-ctx.Done():
					unsubscribe()
					return
				}
			}
		}
	}()

	return events, unsubscribe, nil
}
