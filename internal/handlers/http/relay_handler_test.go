package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/changefeed"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRelayFixture(t *testing.T, heartbeat time.Duration) (*changefeed.MemoryChangeFeed, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	feed := changefeed.NewMemoryChangeFeed()
	handler := NewRelayHandler(feed, nil, heartbeat, zap.NewNop().Sugar())

	router := gin.New()
	router.GET("/api/v1/canvases/:id/events", handler.StreamEvents)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return feed, server
}

func openStream(t *testing.T, ctx context.Context, server *httptest.Server, canvasID string) (*bufio.Scanner, func()) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/canvases/"+canvasID+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	return bufio.NewScanner(resp.Body), func() { resp.Body.Close() }
}

// nextFrame reads lines until a non-blank frame line arrives.
func nextFrame(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			return line
		}
	}
	t.Fatal("stream ended before expected frame")
	return ""
}

func TestStreamEvents_RelaysEventsInOrder(t *testing.T) {
	feed, server := newRelayFixture(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanner, closeBody := openStream(t, ctx, server, "canvas_1")
	defer closeBody()

	assert.Equal(t, ": connected", nextFrame(t, scanner))

	// The opening comment frame is written after Subscribe, so the
	// subscription is live by now.
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, feed.Publish(context.Background(), &domain.ChangeEvent{
			Type:      domain.EventInsert,
			CanvasID:  "canvas_1",
			Timestamp: time.Now(),
			Data:      &domain.MediaObject{ID: domain.MediaObjectID(id), CanvasID: "canvas_1"},
		}))
	}

	for _, id := range []string{"m1", "m2", "m3"} {
		frame := nextFrame(t, scanner)
		require.True(t, strings.HasPrefix(frame, "data: "), "unexpected frame: %s", frame)

		var event domain.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &event))
		assert.Equal(t, domain.EventInsert, event.Type)
		assert.Equal(t, domain.MediaObjectID(id), event.Data.ID)
	}
}

func TestStreamEvents_SendsHeartbeats(t *testing.T) {
	_, server := newRelayFixture(t, 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanner, closeBody := openStream(t, ctx, server, "canvas_1")
	defer closeBody()

	assert.Equal(t, ": connected", nextFrame(t, scanner))
	assert.Equal(t, ": heartbeat", nextFrame(t, scanner))
	assert.Equal(t, ": heartbeat", nextFrame(t, scanner))
}

func TestStreamEvents_DisconnectTearsDownSubscription(t *testing.T) {
	feed, server := newRelayFixture(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())

	scanner, closeBody := openStream(t, ctx, server, "canvas_1")
	defer closeBody()

	assert.Equal(t, ": connected", nextFrame(t, scanner))
	assert.Equal(t, 1, feed.SubscriberCount("canvas_1"))

	cancel()

	assert.Eventually(t, func() bool {
		return feed.SubscriberCount("canvas_1") == 0
	}, 2*time.Second, 10*time.Millisecond, "subscription was not released after disconnect")
}

type unavailableFeed struct{}

func (unavailableFeed) Publish(context.Context, *domain.ChangeEvent) error { return nil }

func (unavailableFeed) Subscribe(context.Context, domain.CanvasID) (<-chan domain.ChangeEvent, ports.UnsubscribeFunc, error) {
	return nil, nil, errors.New("feed down")
}

func TestStreamEvents_SubscribeFailureReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewRelayHandler(unavailableFeed{}, nil, time.Minute, zap.NewNop().Sugar())
	router := gin.New()
	router.GET("/api/v1/canvases/:id/events", handler.StreamEvents)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/canvases/canvas_1/events", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.NotEqual(t, "text/event-stream", recorder.Header().Get("Content-Type"))
}

func TestStreamEvents_EventForOtherCanvasNotDelivered(t *testing.T) {
	feed, server := newRelayFixture(t, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanner, closeBody := openStream(t, ctx, server, "canvas_1")
	defer closeBody()

	assert.Equal(t, ": connected", nextFrame(t, scanner))

	require.NoError(t, feed.Publish(context.Background(), &domain.ChangeEvent{
		Type:     domain.EventInsert,
		CanvasID: "canvas_other",
		Data:     &domain.MediaObject{ID: "m1", CanvasID: "canvas_other"},
	}))

	// The next frame is a heartbeat, not the other canvas's event.
	assert.Equal(t, ": heartbeat", nextFrame(t, scanner))
}
