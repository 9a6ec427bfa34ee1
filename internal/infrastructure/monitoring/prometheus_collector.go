package monitoring

import (
	"time"

	"zombiedigital/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Gauges
	relayConnectionsActive prometheus.Gauge
	canvasesActiveTotal    prometheus.Gauge

	// Counters
	accessChecksTotal     *prometheus.CounterVec
	modVerificationsTotal *prometheus.CounterVec
	modCacheHitsTotal     prometheus.Counter
	modCacheMissesTotal   prometheus.Counter
	eventsRelayedTotal    *prometheus.CounterVec
	eventsDroppedTotal    prometheus.Counter

	// Histograms
	accessResolveDuration  prometheus.Histogram
	modVerifyDuration      prometheus.Histogram
	relayConnectionSeconds prometheus.Histogram

	// Per-canvas metrics
	canvasSubscriberCount *prometheus.GaugeVec
	canvasMediaCount      *prometheus.GaugeVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		relayConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zombie_relay_connections_active",
			Help: "Number of live change feed connections",
		}),

		canvasesActiveTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zombie_canvases_active_total",
			Help: "Total number of stored canvases",
		}),

		accessChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zombie_access_checks_total",
			Help: "Access resolutions by resulting role",
		}, []string{"role", "allowed"}),

		modVerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zombie_mod_verifications_total",
			Help: "Moderator status verifications against the Helix API by result",
		}, []string{"result"}),

		modCacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zombie_mod_cache_hits_total",
			Help: "Moderator status answered from fresh cache entries",
		}),

		modCacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zombie_mod_cache_misses_total",
			Help: "Moderator status lookups that required live verification",
		}),

		eventsRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zombie_events_relayed_total",
			Help: "Change events delivered to subscribers by event type",
		}, []string{"type"}),

		eventsDroppedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zombie_events_dropped_total",
			Help: "Change events dropped instead of delivered to a subscriber",
		}),

		accessResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zombie_access_resolve_duration_seconds",
			Help:    "Duration of permission resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		modVerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zombie_mod_verify_duration_seconds",
			Help:    "Duration of live moderator verification calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),

		relayConnectionSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zombie_relay_connection_duration_seconds",
			Help:    "Lifetime of change feed connections",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),

		canvasSubscriberCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zombie_canvas_subscriber_count",
			Help: "Number of live subscribers per canvas",
		}, []string{"canvas_id"}),

		canvasMediaCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zombie_canvas_media_count",
			Help: "Number of media objects per canvas",
		}, []string{"canvas_id"}),
	}
}

func (p *PrometheusCollector) RecordAccessCheck(decision domain.AccessDecision, duration time.Duration) {
	allowed := "false"
	if decision.Allowed {
		allowed = "true"
	}
	p.accessChecksTotal.WithLabelValues(string(decision.Role), allowed).Inc()
	p.accessResolveDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordModVerification(isMod bool, err error, duration time.Duration) {
	result := "negative"
	switch {
	case err != nil:
		result = "error"
	case isMod:
		result = "positive"
	}
	p.modVerificationsTotal.WithLabelValues(result).Inc()
	p.modVerifyDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordModCacheHit() {
	p.modCacheHitsTotal.Inc()
}

func (p *PrometheusCollector) RecordModCacheMiss() {
	p.modCacheMissesTotal.Inc()
}

func (p *PrometheusCollector) RecordSubscriberConnected(canvasID domain.CanvasID) {
	p.relayConnectionsActive.Inc()
	p.canvasSubscriberCount.WithLabelValues(string(canvasID)).Inc()
}

func (p *PrometheusCollector) RecordSubscriberDisconnected(canvasID domain.CanvasID, connectedFor time.Duration) {
	p.relayConnectionsActive.Dec()
	p.canvasSubscriberCount.WithLabelValues(string(canvasID)).Dec()
	p.relayConnectionSeconds.Observe(connectedFor.Seconds())
}

func (p *PrometheusCollector) RecordEventRelayed(eventType domain.ChangeEventType) {
	p.eventsRelayedTotal.WithLabelValues(string(eventType)).Inc()
}

func (p *PrometheusCollector) RecordEventDropped() {
	p.eventsDroppedTotal.Inc()
}

func (p *PrometheusCollector) RecordCanvasCreated(canvasID domain.CanvasID) {
	p.canvasesActiveTotal.Inc()
}

func (p *PrometheusCollector) RecordCanvasDeleted(canvasID domain.CanvasID) {
	p.canvasesActiveTotal.Dec()

	p.canvasSubscriberCount.DeleteLabelValues(string(canvasID))
	p.canvasMediaCount.DeleteLabelValues(string(canvasID))
}

func (p *PrometheusCollector) SetCanvasMediaCount(canvasID domain.CanvasID, count int) {
	p.canvasMediaCount.WithLabelValues(string(canvasID)).Set(float64(count))
}
