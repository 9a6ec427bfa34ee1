package services

import (
	"context"
	"fmt"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/pkg/utils"
	"zombiedigital/pkg/validation"

	"go.uber.org/zap"
)

type canvasService struct {
	canvasRepo  ports.CanvasRepository
	mediaRepo   ports.MediaObjectRepository
	allowedRepo ports.AllowedUserRepository
	feed        ports.ChangeFeed
	metrics     MetricsRecorder
	logger      *zap.SugaredLogger
}

func NewCanvasService(
	canvasRepo ports.CanvasRepository,
	mediaRepo ports.MediaObjectRepository,
	allowedRepo ports.AllowedUserRepository,
	feed ports.ChangeFeed,
	metrics MetricsRecorder,
	logger *zap.SugaredLogger,
) ports.CanvasService {
	return &canvasService{
		canvasRepo:  canvasRepo,
		mediaRepo:   mediaRepo,
		allowedRepo: allowedRepo,
		feed:        feed,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *canvasService) CreateCanvas(ctx context.Context, owner *domain.User, name string, resolution domain.Resolution) (*domain.Canvas, error) {
	if err := validation.ValidateCanvasName(name); err != nil {
		return nil, err
	}
	if resolution == "" {
		resolution = domain.ResolutionFullHD
	}
	if !resolution.Valid() {
		return nil, fmt.Errorf("unknown resolution: %s", resolution)
	}

	now := time.Now()
	canvas := &domain.Canvas{
		ID:                 domain.CanvasID(utils.GenerateCanvasID()),
		OwnerID:            owner.ID,
		OwnerBroadcasterID: owner.BroadcasterID,
		Name:               name,
		Resolution:         resolution,
		BackgroundColor:    "#000000",
		ShowNameTag:        true,
		AutoFit:            true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.canvasRepo.Create(ctx, canvas); err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCanvasCreated(canvas.ID)
	}
	return canvas, nil
}

func (s *canvasService) GetCanvas(ctx context.Context, id domain.CanvasID) (*domain.Canvas, error) {
	return s.canvasRepo.GetByID(ctx, id)
}

func (s *canvasService) ListCanvases(ctx context.Context, ownerID domain.UserID) ([]*domain.Canvas, error) {
	return s.canvasRepo.ListByOwner(ctx, ownerID)
}

func (s *canvasService) UpdateSettings(ctx context.Context, id domain.CanvasID, settings domain.CanvasSettings) (*domain.Canvas, error) {
	canvas, err := s.canvasRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if settings.Name != nil {
		if err := validation.ValidateCanvasName(*settings.Name); err != nil {
			return nil, err
		}
		canvas.Name = *settings.Name
	}
	if settings.Resolution != nil {
		if !settings.Resolution.Valid() {
			return nil, fmt.Errorf("unknown resolution: %s", *settings.Resolution)
		}
		canvas.Resolution = *settings.Resolution
	}
	if settings.BackgroundColor != nil {
		if err := validation.ValidateHexColor(*settings.BackgroundColor); err != nil {
			return nil, err
		}
		canvas.BackgroundColor = *settings.BackgroundColor
	}
	if settings.ShowNameTag != nil {
		canvas.ShowNameTag = *settings.ShowNameTag
	}
	if settings.AutoFit != nil {
		canvas.AutoFit = *settings.AutoFit
	}
	if settings.Locked != nil {
		canvas.Locked = *settings.Locked
	}
	if settings.AllowMods != nil {
		canvas.AllowMods = *settings.AllowMods
	}
	if settings.AllowViewers != nil {
		canvas.AllowViewers = *settings.AllowViewers
	}
	canvas.UpdatedAt = time.Now()

	if err := s.canvasRepo.Update(ctx, canvas); err != nil {
		return nil, fmt.Errorf("failed to update canvas: %w", err)
	}

	return canvas, nil
}

func (s *canvasService) DeleteCanvas(ctx context.Context, id domain.CanvasID) error {
	if _, err := s.canvasRepo.GetByID(ctx, id); err != nil {
		return err
	}

	// Cascade before the canvas record goes away so a failed cascade leaves a
	// still-discoverable canvas rather than orphaned rows.
	if err := s.mediaRepo.RemoveByCanvas(ctx, id); err != nil {
		return fmt.Errorf("failed to remove canvas media: %w", err)
	}
	if err := s.allowedRepo.RemoveByCanvas(ctx, id); err != nil {
		return fmt.Errorf("failed to remove canvas grants: %w", err)
	}
	if err := s.canvasRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordCanvasDeleted(id)
	}
	return nil
}

// mutableBy reports whether the actor may mutate media on the canvas given its
// lock state. Locked canvases accept mutations from the owner only.
func mutableBy(canvas *domain.Canvas, actor domain.UserID) error {
	if canvas.Locked && canvas.OwnerID != actor {
		return domain.ErrCanvasLocked
	}
	return nil
}

func (s *canvasService) AddMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, object *domain.MediaObject) (*domain.MediaObject, error) {
	canvas, err := s.canvasRepo.GetByID(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	if err := mutableBy(canvas, actor); err != nil {
		return nil, err
	}
	if err := validation.ValidateMediaURL(object.URL); err != nil {
		return nil, err
	}
	if err := validation.ValidateZIndex(object.ZIndex); err != nil {
		return nil, err
	}
	if err := validation.ValidateDimension(object.Width); err != nil {
		return nil, err
	}
	if err := validation.ValidateDimension(object.Height); err != nil {
		return nil, err
	}
	if !object.Kind.Valid() {
		return nil, fmt.Errorf("unknown media kind: %s", object.Kind)
	}

	now := time.Now()
	object.ID = domain.MediaObjectID(utils.GenerateMediaObjectID())
	object.CanvasID = canvasID
	object.CreatedAt = now
	object.UpdatedAt = now

	if err := s.mediaRepo.Add(ctx, object); err != nil {
		return nil, fmt.Errorf("failed to add media object: %w", err)
	}

	s.publish(ctx, domain.EventInsert, canvasID, object)
	return object, nil
}

func (s *canvasService) UpdateMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID, update domain.MediaObjectUpdate) (*domain.MediaObject, error) {
	canvas, err := s.canvasRepo.GetByID(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	if err := mutableBy(canvas, actor); err != nil {
		return nil, err
	}

	object, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if object.CanvasID != canvasID {
		return nil, domain.ErrMediaObjectNotFound
	}

	if update.URL != nil {
		if err := validation.ValidateMediaURL(*update.URL); err != nil {
			return nil, err
		}
		object.URL = *update.URL
	}
	if update.X != nil {
		object.X = *update.X
	}
	if update.Y != nil {
		object.Y = *update.Y
	}
	if update.Width != nil {
		object.Width = *update.Width
	}
	if update.Height != nil {
		object.Height = *update.Height
	}
	if update.Rotation != nil {
		object.Rotation = *update.Rotation
	}
	if update.ZIndex != nil {
		if err := validation.ValidateZIndex(*update.ZIndex); err != nil {
			return nil, err
		}
		object.ZIndex = *update.ZIndex
	}
	object.UpdatedAt = time.Now()

	if err := s.mediaRepo.Update(ctx, object); err != nil {
		return nil, fmt.Errorf("failed to update media object: %w", err)
	}

	s.publish(ctx, domain.EventUpdate, canvasID, object)
	return object, nil
}

func (s *canvasService) RemoveMedia(ctx context.Context, actor domain.UserID, canvasID domain.CanvasID, id domain.MediaObjectID) error {
	canvas, err := s.canvasRepo.GetByID(ctx, canvasID)
	if err != nil {
		return err
	}
	if err := mutableBy(canvas, actor); err != nil {
		return err
	}

	object, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if object.CanvasID != canvasID {
		return domain.ErrMediaObjectNotFound
	}

	if err := s.mediaRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove media object: %w", err)
	}

	// Delete events carry the identifying fields only.
	s.publish(ctx, domain.EventDelete, canvasID, &domain.MediaObject{ID: object.ID, CanvasID: canvasID})
	return nil
}

func (s *canvasService) ListMedia(ctx context.Context, canvasID domain.CanvasID) ([]*domain.MediaObject, error) {
	objects, err := s.mediaRepo.ListByCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	domain.SortMediaObjects(objects)
	if s.metrics != nil {
		s.metrics.SetCanvasMediaCount(canvasID, len(objects))
	}
	return objects, nil
}

func (s *canvasService) GrantAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) (*domain.AllowedUser, error) {
	if _, err := s.canvasRepo.GetByID(ctx, canvasID); err != nil {
		return nil, err
	}

	grant := &domain.AllowedUser{
		CanvasID:  canvasID,
		UserID:    userID,
		GrantedAt: time.Now(),
	}
	if err := s.allowedRepo.Grant(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to grant access: %w", err)
	}
	return grant, nil
}

func (s *canvasService) RevokeAccess(ctx context.Context, canvasID domain.CanvasID, userID domain.UserID) error {
	return s.allowedRepo.Revoke(ctx, canvasID, userID)
}

func (s *canvasService) ListAllowedUsers(ctx context.Context, canvasID domain.CanvasID) ([]*domain.AllowedUser, error) {
	return s.allowedRepo.ListByCanvas(ctx, canvasID)
}

// publish pushes a change event to the feed. Delivery is best effort: a failed
// publish loses that event for live viewers, who reconcile by refetching the
// media list on reconnect.
func (s *canvasService) publish(ctx context.Context, eventType domain.ChangeEventType, canvasID domain.CanvasID, object *domain.MediaObject) {
	event := &domain.ChangeEvent{
		Type:      eventType,
		CanvasID:  canvasID,
		Timestamp: time.Now(),
		Data:      object,
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.Warnw("failed to publish change event",
			"canvas_id", canvasID,
			"type", eventType,
			"error", err,
		)
	}
}
