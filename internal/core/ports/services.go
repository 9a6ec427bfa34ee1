package ports

import (
	"context"

	"zombiedigital/internal/core/domain"
)

// AccessService resolves what a user may do on a canvas. It never returns an
// error: every failure collapses into the denied decision.
type AccessService interface {
	ResolveAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) domain.AccessDecision
}

// ModerationService answers moderator-status questions with cached results.
type ModerationService interface {
	IsModerator(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) bool
}

// ModerationVerifier is the external moderation-list lookup. Implementations
// must bound the call with a timeout.
type ModerationVerifier interface {
	VerifyModStatus(ctx context.Context, broadcasterID domain.BroadcasterID, moderatorID domain.UserID) (bool, error)
}

type CanvasService interface {
	CreateCanvas(ctx context.Context, owner *domain.User, name string, resolution domain.Resolution) (*domain.Canvas, error)
	GetCanvas(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error)
	ListCanvases(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error)
	UpdateSettings(ctx context.Context, id domain.CanvasID, settings domain.CanvasSettings) (*domain.Canvas, error)
	DeleteCanvas(ctx context.Context, id domain.CanvasID) error

	AddMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, object *domain.MediaObject) (*domain.MediaObject, error)
	UpdateMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID, update domain.MediaObjectUpdate) (*domain.MediaObject, error)
	RemoveMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID) error
	ListMedia(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error)

	GrantAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (*domain.AllowedUser, error)
	RevokeAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error
	ListAllowedUsers(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error)
}
