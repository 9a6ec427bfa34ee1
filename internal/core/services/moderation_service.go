package services

import (
	"context"
	"errors"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"go.uber.org/zap"
)

// DefaultModCacheTTL bounds how long a positive moderator lookup is trusted
// before it must be re-verified.
const DefaultModCacheTTL = time.Hour

type moderationService struct {
	cacheRepo ports.ModCacheRepository
	verifier  ports.ModerationVerifier
	cacheTTL  time.Duration
	metrics   MetricsRecorder
	logger    *zap.SugaredLogger

	// now is replaceable in tests.
	now func() time.Time
}

func NewModerationService(
	cacheRepo ports.ModCacheRepository,
	verifier ports.ModerationVerifier,
	cacheTTL time.Duration,
	metrics MetricsRecorder,
	logger *zap.SugaredLogger,
) ports.ModerationService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultModCacheTTL
	}
	return &moderationService{
		cacheRepo: cacheRepo,
		verifier:  verifier,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// IsModerator trusts a fresh cached positive without touching the verifier.
// Stale or missing entries are re-verified: a positive result re-populates the
// cache before the answer is returned, a negative one removes any stale entry.
// Verifier failures are treated as negative; uncertainty never grants access.
func (s *moderationService) IsModerator(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) bool {
	entry, err := s.cacheRepo.Get(ctx, broadcasterID, moderatorID)
	if err == nil && entry.FreshWithin(s.cacheTTL, s.now()) {
		if s.metrics != nil {
			s.metrics.RecordModCacheHit()
		}
		return true
	}
	if s.metrics != nil {
		s.metrics.RecordModCacheMiss()
	}
	if err != nil && !errors.Is(err, domain.ErrModCacheMiss) {
		// A cache read failure is treated as unknown, not as a denial; the
		// verifier below is still the authority.
		s.logger.Warnw("mod cache read failed",
			"broadcaster_id", broadcasterID,
			"moderator_id", moderatorID,
			"error", err,
		)
	}

	verifyStart := s.now()
	isMod, err := s.verifier.VerifyModStatus(ctx, broadcasterID, moderatorID)
	if s.metrics != nil {
		s.metrics.RecordModVerification(isMod, err, time.Since(verifyStart))
	}
	if err != nil {
		s.logger.Warnw("moderator verification failed",
			"broadcaster_id", broadcasterID,
			"moderator_id", moderatorID,
			"error", err,
		)
		return false
	}

	if isMod {
		upsert := &domain.ModCacheEntry{
			BroadcasterID: broadcasterID,
			ModeratorID:   moderatorID,
			LastChecked:   s.now(),
		}
		if err := s.cacheRepo.Upsert(ctx, upsert); err != nil {
			s.logger.Warnw("mod cache upsert failed",
				"broadcaster_id", broadcasterID,
				"moderator_id", moderatorID,
				"error", err,
			)
		}
		return true
	}

	if err := s.cacheRepo.Delete(ctx, broadcasterID, moderatorID); err != nil && !errors.Is(err, domain.ErrModCacheMiss) {
		s.logger.Warnw("mod cache delete failed",
			"broadcaster_id", broadcasterID,
			"moderator_id", moderatorID,
			"error", err,
		)
	}
	return false
}
