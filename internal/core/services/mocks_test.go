package services

import (
	"context"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// Mock repositories shared by the service tests.

type MockCanvasRepository struct {
	mock.Mock
}

func (m *MockCanvasRepository) Create(ctx context.Context, canvas *domain.Canvas) error {
	args := m.Called(ctx, canvas)
	return args.Error(0)
}

func (m *MockCanvasRepository) GetByID(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Canvas), args.Error(1)
}

func (m *MockCanvasRepository) Update(ctx context.Context, canvas *domain.Canvas) error {
	args := m.Called(ctx, canvas)
	return args.Error(0)
}

func (m *MockCanvasRepository) Delete(ctx context.Context, id domain.CanvasID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCanvasRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Canvas), args.Error(1)
}

type MockMediaObjectRepository struct {
	mock.Mock
}

func (m *MockMediaObjectRepository) Add(ctx context.Context, object *domain.MediaObject) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) GetByID(ctx context.Context, id domain.MediaObjectID) (*domain.MediaObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MediaObject), args.Error(1)
}

func (m *MockMediaObjectRepository) Update(ctx context.Context, object *domain.MediaObject) error {
	args := m.Called(ctx, object)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) Remove(ctx context.Context, id domain.MediaObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error) {
	args := m.Called(ctx, canvasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MediaObject), args.Error(1)
}

func (m *MockMediaObjectRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	args := m.Called(ctx, canvasID)
	return args.Error(0)
}

type MockAllowedUserRepository struct {
	mock.Mock
}

func (m *MockAllowedUserRepository) Grant(ctx context.Context, grant *domain.AllowedUser) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockAllowedUserRepository) Revoke(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error {
	args := m.Called(ctx, canvasID, userID)
	return args.Error(0)
}

func (m *MockAllowedUserRepository) IsAllowed(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (bool, error) {
	args := m.Called(ctx, canvasID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAllowedUserRepository) ListByCanvas(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error) {
	args := m.Called(ctx, canvasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AllowedUser), args.Error(1)
}

func (m *MockAllowedUserRepository) RemoveByCanvas(ctx context.Context, canvasID domain.CanvasID) error {
	args := m.Called(ctx, canvasID)
	return args.Error(0)
}

type MockModCacheRepository struct {
	mock.Mock
}

func (m *MockModCacheRepository) Get(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (*domain.ModCacheEntry, error) {
	args := m.Called(ctx, broadcasterID, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModCacheEntry), args.Error(1)
}

func (m *MockModCacheRepository) Upsert(ctx context.Context, entry *domain.ModCacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockModCacheRepository) Delete(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) error {
	args := m.Called(ctx, broadcasterID, moderatorID)
	return args.Error(0)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) IsModerator(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) bool {
	args := m.Called(ctx, broadcasterID, moderatorID)
	return args.Bool(0)
}

type MockModerationVerifier struct {
	mock.Mock
}

func (m *MockModerationVerifier) VerifyModStatus(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (bool, error) {
	args := m.Called(ctx, broadcasterID, moderatorID)
	return args.Bool(0), args.Error(1)
}

type MockChangeFeed struct {
	mock.Mock
}

func (m *MockChangeFeed) Publish(ctx context.Context, event *domain.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockChangeFeed) Subscribe(ctx context.Context, canvasID domain.CanvasID) (<-chan domain.ChangeEvent, ports.UnsubscribeFunc, error) {
	args := m.Called(ctx, canvasID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan domain.ChangeEvent), args.Get(1).(ports.UnsubscribeFunc), args.Error(2)
}
