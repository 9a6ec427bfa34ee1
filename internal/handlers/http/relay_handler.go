package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RelayHandler streams canvas change events to overlay clients over SSE.
// Access is enforced by middleware before the stream opens; once a stream is
// established it is never re-checked, a revoked viewer keeps it until
// disconnect.
type RelayHandler struct {
	feed              ports.ChangeFeed
	collector         *monitoring.PrometheusCollector
	heartbeatInterval time.Duration
	logger            *zap.SugaredLogger
}

func NewRelayHandler(
	feed ports.ChangeFeed,
	collector *monitoring.PrometheusCollector,
	heartbeatInterval time.Duration,
	logger *zap.SugaredLogger,
) *RelayHandler {
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}
	return &RelayHandler{
		feed:              feed,
		collector:         collector,
		heartbeatInterval: heartbeatInterval,
		logger:            logger,
	}
}

func (h *RelayHandler) StreamEvents(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	events, unsubscribe, err := h.feed.Subscribe(ctx, canvasID)
	if err != nil {
		h.logger.Errorw("failed to subscribe to change feed",
			"canvas_id", canvasID,
			"error", err,
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "change feed unavailable"})
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	// Tell the client the stream is live before the first event arrives.
	fmt.Fprint(c.Writer, ": connected\n\n")
	flusher.Flush()

	connectedAt := time.Now()
	if h.collector != nil {
		h.collector.RecordSubscriberConnected(canvasID)
		defer func() {
			h.collector.RecordSubscriberDisconnected(canvasID, time.Since(connectedAt))
		}()
	}

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	// Single writer loop. Events, heartbeats and disconnect all funnel through
	// one select so frames never interleave.
	for {
		select {
		case <-ctx.Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()

		case event, ok := <-events:
			if !ok {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				// Drop the one event, keep the stream.
				h.logger.Warnw("failed to marshal change event",
					"canvas_id", canvasID,
					"type", event.Type,
					"error", err,
				)
				if h.collector != nil {
					h.collector.RecordEventDropped()
				}
				continue
			}

			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			flusher.Flush()

			if h.collector != nil {
				h.collector.RecordEventRelayed(event.Type)
			}
		}
	}
}
