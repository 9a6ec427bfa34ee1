package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// RelayServer is the WebSocket flavour of the change feed relay. OBS browser
// sources prefer SSE; the editor keeps a WebSocket open because it already
// has one for input events.
type RelayServer struct {
	feed      ports.ChangeFeed
	collector *monitoring.PrometheusCollector

	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration

	logger *zap.SugaredLogger
}

func NewRelayServer(feed ports.ChangeFeed, collector *monitoring.PrometheusCollector, logger *zap.SugaredLogger) *RelayServer {
	return &RelayServer{
		feed:         feed,
		collector:    collector,
		pingInterval: 30 * time.Second, // Default ping interval
		pongTimeout:  60 * time.Second, // Default pong timeout
		writeTimeout: 10 * time.Second, // Default write timeout
		logger:       logger,
	}
}

// SetPingInterval sets ping interval for WebSocket connections
func (s *RelayServer) SetPingInterval(interval time.Duration) {
	s.pingInterval = interval
}

// SetPongTimeout sets pong timeout for WebSocket connections
func (s *RelayServer) SetPongTimeout(timeout time.Duration) {
	s.pongTimeout = timeout
}

// HandleCanvasFeed upgrades the request and relays change events for one
// canvas until the client goes away. Access must be checked by the caller
// before the upgrade.
func (s *RelayServer) HandleCanvasFeed(w http.ResponseWriter, r *http.Request, canvasID domain.CanvasID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed",
			"canvas_id", canvasID,
			"error", err,
		)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	events, unsubscribe, err := s.feed.Subscribe(ctx, canvasID)
	if err != nil {
		s.logger.Errorw("failed to subscribe to change feed",
			"canvas_id", canvasID,
			"error", err,
		)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "change feed unavailable"),
			time.Now().Add(s.writeTimeout),
		)
		return
	}
	defer unsubscribe()

	connectedAt := time.Now()
	if s.collector != nil {
		s.collector.RecordSubscriberConnected(canvasID)
		defer func() {
			s.collector.RecordSubscriberDisconnected(canvasID, time.Since(connectedAt))
		}()
	}

	conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
		return nil
	})

	// Read pump exists only to process pongs and notice the close frame.
	readClosed := make(chan struct{})
	go func() {
		defer close(readClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-readClosed:
			return

		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case event, ok := <-events:
			if !ok {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Warnw("failed to marshal change event",
					"canvas_id", canvasID,
					"type", event.Type,
					"error", err,
				)
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			if s.collector != nil {
				s.collector.RecordEventRelayed(event.Type)
			}
		}
	}
}
