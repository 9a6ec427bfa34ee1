package services

import (
	"context"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"

	"go.uber.org/zap"
)

// accessService decides who may view or edit a canvas. It is deliberately
// fail-closed: any lookup failure collapses into the fully denied decision and
// no error ever reaches the caller.
type accessService struct {
	canvasRepo  ports.CanvasRepository
	allowedRepo ports.AllowedUserRepository
	moderation  ports.ModerationService
	metrics     MetricsRecorder
	logger      *zap.SugaredLogger
}

func NewAccessService(
	canvasRepo ports.CanvasRepository,
	allowedRepo ports.AllowedUserRepository,
	moderation ports.ModerationService,
	metrics MetricsRecorder,
	logger *zap.SugaredLogger,
) ports.AccessService {
	return &accessService{
		canvasRepo:  canvasRepo,
		allowedRepo: allowedRepo,
		moderation:  moderation,
		metrics:     metrics,
		logger:      logger,
	}
}

// ResolveAccess evaluates the decision ladder top to bottom, first match wins:
// owner, explicit grant, moderator (when allow_mods), allow_viewers, then the
// read-only viewer fallback. Unauthenticated requests are denied before any
// lookup happens.
func (s *accessService) ResolveAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) domain.AccessDecision {
	start := time.Now()
	decision := s.resolve(ctx, canvasID, userID)
	if s.metrics != nil {
		s.metrics.RecordAccessCheck(decision, time.Since(start))
	}
	return decision
}

func (s *accessService) resolve(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) domain.AccessDecision {
	if userID == "" {
		return domain.Denied()
	}

	canvas, err := s.canvasRepo.GetByID(ctx, canvasID)
	if err != nil {
		s.logger.Debugw("access check could not load canvas",
			"canvas_id", canvasID,
			"user_id", userID,
			"error", err,
		)
		return domain.Denied()
	}

	if canvas.OwnerID == userID {
		return domain.AccessDecision{Allowed: true, Role: domain.RoleOwner, CanEdit: true}
	}

	granted, err := s.allowedRepo.IsAllowed(ctx, canvasID, userID)
	if err != nil {
		s.logger.Debugw("access check could not load grants",
			"canvas_id", canvasID,
			"user_id", userID,
			"error", err,
		)
		return domain.Denied()
	}
	if granted {
		return domain.AccessDecision{Allowed: true, Role: domain.RoleAllowed, CanEdit: true}
	}

	if canvas.AllowMods && s.moderation.IsModerator(ctx, canvas.OwnerBroadcasterID, userID) {
		return domain.AccessDecision{Allowed: true, Role: domain.RoleModerator, CanEdit: true}
	}

	// allow_viewers grants edit rights equal to moderators. That matches the
	// shipped behavior of the overlay editor; see DESIGN.md before changing it.
	if canvas.AllowViewers {
		return domain.AccessDecision{Allowed: true, Role: domain.RoleViewer, CanEdit: true}
	}

	return domain.AccessDecision{Allowed: true, Role: domain.RoleViewer, CanEdit: false}
}
