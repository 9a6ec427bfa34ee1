package changefeed

import (
	"context"
	"testing"
	"time"

	"zombiedigital/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestMemoryChangeFeed_DeliversInPublishOrder(t *testing.T) {
	feed := NewMemoryChangeFeed()
	ctx := context.Background()

	events, unsubscribe, err := feed.Subscribe(ctx, "canvas_1")
	assert.NoError(t, err)
	defer unsubscribe()

	for i := 0; i < 3; i++ {
		err := feed.Publish(ctx, &domain.ChangeEvent{
			Type:      domain.EventInsert,
			CanvasID:  "canvas_1",
			Timestamp: time.Now(),
			Data:      &domain.MediaObject{ID: domain.MediaObjectID(string(rune('a' + i)))},
		})
		assert.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		select {
		case event := <-events:
			assert.Equal(t, domain.MediaObjectID(string(rune('a'+i))), event.Data.ID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestMemoryChangeFeed_IsolatesCanvases(t *testing.T) {
	feed := NewMemoryChangeFeed()
	ctx := context.Background()

	eventsA, unsubA, err := feed.Subscribe(ctx, "canvas_a")
	assert.NoError(t, err)
	defer unsubA()

	eventsB, unsubB, err := feed.Subscribe(ctx, "canvas_b")
	assert.NoError(t, err)
	defer unsubB()

	assert.NoError(t, feed.Publish(ctx, &domain.ChangeEvent{Type: domain.EventInsert, CanvasID: "canvas_a"}))

	select {
	case event := <-eventsA:
		assert.Equal(t, domain.CanvasID("canvas_a"), event.CanvasID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event on canvas_a")
	}

	select {
	case <-eventsB:
		t.Fatal("canvas_b subscriber received canvas_a event")
	default:
	}
}

func TestMemoryChangeFeed_UnsubscribeClosesChannelOnce(t *testing.T) {
	feed := NewMemoryChangeFeed()
	ctx := context.Background()

	events, unsubscribe, err := feed.Subscribe(ctx, "canvas_1")
	assert.NoError(t, err)
	assert.Equal(t, 1, feed.SubscriberCount("canvas_1"))

	unsubscribe()
	// Second call must be a no-op, not a double close.
	unsubscribe()

	assert.Equal(t, 0, feed.SubscriberCount("canvas_1"))

	_, open := <-events
	assert.False(t, open)
}

func TestMemoryChangeFeed_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	feed := NewMemoryChangeFeed()
	ctx := context.Background()

	_, unsubscribe, err := feed.Subscribe(ctx, "canvas_1")
	assert.NoError(t, err)
	defer unsubscribe()

	// Overflow the subscriber buffer without draining; Publish must not stall.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			feed.Publish(ctx, &domain.ChangeEvent{Type: domain.EventUpdate, CanvasID: "canvas_1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
}
