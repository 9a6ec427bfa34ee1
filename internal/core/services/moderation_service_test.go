package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"zombiedigital/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newModerationFixture(ttl time.Duration) (*MockModCacheRepository, *MockModerationVerifier, *moderationService) {
	cacheRepo := new(MockModCacheRepository)
	verifier := new(MockModerationVerifier)

	svc := NewModerationService(cacheRepo, verifier, ttl, nil, zap.NewNop().Sugar()).(*moderationService)
	return cacheRepo, verifier, svc
}

func TestIsModerator_FreshCacheHit_SkipsVerifier(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	now := time.Now()
	svc.now = func() time.Time { return now }

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(&domain.ModCacheEntry{
		BroadcasterID: "100",
		ModeratorID:   "300",
		LastChecked:   now.Add(-30 * time.Minute),
	}, nil)

	assert.True(t, svc.IsModerator(context.Background(), "100", "300"))
	verifier.AssertNotCalled(t, "VerifyModStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsModerator_StaleEntry_ReverifiesAndRefreshes(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	now := time.Now()
	svc.now = func() time.Time { return now }

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(&domain.ModCacheEntry{
		BroadcasterID: "100",
		ModeratorID:   "300",
		LastChecked:   now.Add(-2 * time.Hour),
	}, nil)
	verifier.On("VerifyModStatus", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(true, nil)
	cacheRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(e *domain.ModCacheEntry) bool {
		return e.BroadcasterID == "100" && e.ModeratorID == "300" && e.LastChecked.Equal(now)
	})).Return(nil)

	assert.True(t, svc.IsModerator(context.Background(), "100", "300"))
	cacheRepo.AssertExpectations(t)
	verifier.AssertExpectations(t)
}

func TestIsModerator_CacheMiss_NegativeNotCached(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(nil, domain.ErrModCacheMiss)
	verifier.On("VerifyModStatus", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(false, nil)
	cacheRepo.On("Delete", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(nil)

	assert.False(t, svc.IsModerator(context.Background(), "100", "300"))
	cacheRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestIsModerator_VerifierFailure_AnswersFalse(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(nil, domain.ErrModCacheMiss)
	verifier.On("VerifyModStatus", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(false, errors.New("helix timeout"))

	// Uncertainty never grants access.
	assert.False(t, svc.IsModerator(context.Background(), "100", "300"))
	cacheRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	cacheRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsModerator_CacheReadFailure_FallsBackToVerifier(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(nil, errors.New("redis down"))
	verifier.On("VerifyModStatus", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(true, nil)
	cacheRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	assert.True(t, svc.IsModerator(context.Background(), "100", "300"))
}

func TestIsModerator_UpsertFailure_StillAnswersTrue(t *testing.T) {
	cacheRepo, verifier, svc := newModerationFixture(time.Hour)

	cacheRepo.On("Get", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(nil, domain.ErrModCacheMiss)
	verifier.On("VerifyModStatus", mock.Anything, domain.BroadcasterID("100"), domain.UserID("300")).Return(true, nil)
	cacheRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	assert.True(t, svc.IsModerator(context.Background(), "100", "300"))
}

func TestNewModerationService_DefaultTTL(t *testing.T) {
	_, _, svc := newModerationFixture(0)
	assert.Equal(t, DefaultModCacheTTL, svc.cacheTTL)
	assert.Equal(t, time.Hour, DefaultModCacheTTL)
}

func TestModCacheEntry_FreshWithin(t *testing.T) {
	now := time.Now()
	entry := &domain.ModCacheEntry{LastChecked: now.Add(-59 * time.Minute)}
	assert.True(t, entry.FreshWithin(time.Hour, now))

	entry.LastChecked = now.Add(-time.Hour)
	assert.False(t, entry.FreshWithin(time.Hour, now))
}
