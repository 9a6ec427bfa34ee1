package services

import (
	"time"

	"zombiedigital/internal/core/domain"
)

// MetricsRecorder is the slice of the monitoring collector the services report
// to. A nil recorder disables reporting.
type MetricsRecorder interface {
	RecordAccessCheck(decision domain.AccessDecision, duration time.Duration)
	RecordModVerification(isMod bool, err error, duration time.Duration)
	RecordModCacheHit()
	RecordModCacheMiss()
	RecordCanvasCreated(canvasID domain.CanvasID)
	RecordCanvasDeleted(canvasID domain.CanvasID)
	SetCanvasMediaCount(canvasID domain.CanvasID, count int)
}
