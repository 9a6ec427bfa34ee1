package http

import (
	"net/http"
	"strings"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/middleware"
	"zombiedigital/pkg/validation"

	"github.com/gin-gonic/gin"
)

type CanvasHandler struct {
	canvasService ports.CanvasService
}

func NewCanvasHandler(canvasService ports.CanvasService) *CanvasHandler {
	return &CanvasHandler{
		canvasService: canvasService,
	}
}

type CreateCanvasRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Resolution string `json:"resolution" binding:"max=32"`
}

type UpdateSettingsRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	Resolution      *string `json:"resolution" binding:"omitempty,max=32"`
	BackgroundColor *string `json:"background_color" binding:"omitempty,max=7"`
	ShowNameTag     *bool   `json:"show_name_tag"`
	AutoFit         *bool   `json:"auto_fit"`
	Locked          *bool   `json:"locked"`
	AllowMods       *bool   `json:"allow_mods"`
	AllowViewers    *bool   `json:"allow_viewers"`
}

type AddMediaRequest struct {
	URL      string  `json:"url" binding:"required,max=2048"`
	Kind     string  `json:"kind" binding:"required,oneof=image video"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width" binding:"required,gt=0"`
	Height   float64 `json:"height" binding:"required,gt=0"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"z_index" binding:"min=0"`
}

type GrantRequest struct {
	UserID string `json:"user_id" binding:"required,max=20"`
}

func (h *CanvasHandler) CreateCanvas(c *gin.Context) {
	var req CreateCanvasRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get(middleware.ContextUserID)
	broadcasterID, bExists := c.Get(middleware.ContextBroadcasterID)
	if !exists || !bExists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	login, _ := c.Get(middleware.ContextLogin)
	loginStr, _ := login.(string)

	owner := &domain.User{
		ID:            userID.(domain.UserID),
		BroadcasterID: broadcasterID.(domain.BroadcasterID),
		Login:         loginStr,
	}

	canvas, err := h.canvasService.CreateCanvas(c.Request.Context(), owner, strings.TrimSpace(req.Name), domain.Resolution(req.Resolution))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"canvas": canvas,
	})
}

func (h *CanvasHandler) GetCanvas(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	canvas, err := h.canvasService.GetCanvas(c.Request.Context(), canvasID)
	if err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	media, err := h.canvasService.ListMedia(c.Request.Context(), canvasID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canvas": canvas,
		"media":  media,
	})
}

func (h *CanvasHandler) ListCanvases(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	canvases, err := h.canvasService.ListCanvases(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canvases": canvases,
	})
}

func (h *CanvasHandler) UpdateSettings(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	var req UpdateSettingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := domain.CanvasSettings{
		Name:            req.Name,
		BackgroundColor: req.BackgroundColor,
		ShowNameTag:     req.ShowNameTag,
		AutoFit:         req.AutoFit,
		Locked:          req.Locked,
		AllowMods:       req.AllowMods,
		AllowViewers:    req.AllowViewers,
	}
	if req.Resolution != nil {
		resolution := domain.Resolution(*req.Resolution)
		settings.Resolution = &resolution
	}

	canvas, err := h.canvasService.UpdateSettings(c.Request.Context(), canvasID, settings)
	if err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"canvas": canvas,
	})
}

func (h *CanvasHandler) DeleteCanvas(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	if err := h.canvasService.DeleteCanvas(c.Request.Context(), canvasID); err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CanvasHandler) AddMedia(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	var req AddMediaRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	object := &domain.MediaObject{
		URL:      req.URL,
		Kind:     domain.MediaKind(req.Kind),
		X:        req.X,
		Y:        req.Y,
		Width:    req.Width,
		Height:   req.Height,
		Rotation: req.Rotation,
		ZIndex:   req.ZIndex,
	}

	created, err := h.canvasService.AddMedia(c.Request.Context(), middleware.UserIDFromContext(c), canvasID, object)
	if err != nil {
		switch err {
		case domain.ErrCanvasNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
		case domain.ErrCanvasLocked:
			c.JSON(http.StatusConflict, gin.H{"error": "canvas is locked"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"media": created,
	})
}

func (h *CanvasHandler) UpdateMedia(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))
	if err := validation.ValidateMediaObjectID(c.Param("mediaId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaID := domain.MediaObjectID(c.Param("mediaId"))

	var update domain.MediaObjectUpdate
	if err := c.BindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.canvasService.UpdateMedia(c.Request.Context(), middleware.UserIDFromContext(c), canvasID, mediaID, update)
	if err != nil {
		switch err {
		case domain.ErrCanvasNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
		case domain.ErrMediaObjectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "media object not found"})
		case domain.ErrCanvasLocked:
			c.JSON(http.StatusConflict, gin.H{"error": "canvas is locked"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media": updated,
	})
}

func (h *CanvasHandler) RemoveMedia(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))
	if err := validation.ValidateMediaObjectID(c.Param("mediaId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaID := domain.MediaObjectID(c.Param("mediaId"))

	if err := h.canvasService.RemoveMedia(c.Request.Context(), middleware.UserIDFromContext(c), canvasID, mediaID); err != nil {
		switch err {
		case domain.ErrCanvasNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
		case domain.ErrMediaObjectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "media object not found"})
		case domain.ErrCanvasLocked:
			c.JSON(http.StatusConflict, gin.H{"error": "canvas is locked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CanvasHandler) ListMedia(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	media, err := h.canvasService.ListMedia(c.Request.Context(), canvasID)
	if err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media": media,
	})
}

func (h *CanvasHandler) GrantAccess(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	var req GrantRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.canvasService.GrantAccess(c.Request.Context(), canvasID, domain.UserID(req.UserID))
	if err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"grant": grant,
	})
}

func (h *CanvasHandler) RevokeAccess(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))
	userID := domain.UserID(c.Param("userId"))

	if err := h.canvasService.RevokeAccess(c.Request.Context(), canvasID, userID); err != nil {
		switch err {
		case domain.ErrCanvasNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
		case domain.ErrGrantNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "grant not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CanvasHandler) ListAllowedUsers(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))

	grants, err := h.canvasService.ListAllowedUsers(c.Request.Context(), canvasID)
	if err != nil {
		if err == domain.ErrCanvasNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "canvas not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allowed_users": grants,
	})
}
