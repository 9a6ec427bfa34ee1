package http

import (
	"net/http"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// AccessHandler exposes permission resolution to the editor frontend. It
// answers 200 for every request; a denied caller learns only that they are
// denied, never why.
type AccessHandler struct {
	accessService ports.AccessService
}

func NewAccessHandler(accessService ports.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

func (h *AccessHandler) GetAccess(c *gin.Context) {
	canvasID := domain.CanvasID(c.Param("id"))
	if canvasID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "canvas id required"})
		return
	}

	decision := h.accessService.ResolveAccess(c.Request.Context(), canvasID, middleware.UserIDFromContext(c))

	c.JSON(http.StatusOK, decision)
}
