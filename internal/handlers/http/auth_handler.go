package http

import (
	"net/http"
	"time"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/services"
	"zombiedigital/pkg/errors"
	"zombiedigital/pkg/utils"
	"zombiedigital/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    services.AuthService
	accessTokenTTL time.Duration
}

func NewAuthHandler(authService services.AuthService, accessTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accessTokenTTL: accessTokenTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/session", h.CreateSession)
		api.POST("/refresh", h.RefreshToken)
	}
}

type SessionRequest struct {
	UserID        string `json:"user_id" binding:"required,max=20"`
	BroadcasterID string `json:"broadcaster_id" binding:"required,max=20"`
	Login         string `json:"login" binding:"required,max=50"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,max=2048"`
}

// CreateSession turns an established Twitch identity into API credentials.
// TODO: verify the Twitch OAuth code server-side instead of trusting the
// identity fields once the frontend hands us the code directly.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	if err := validation.ValidateTwitchID(req.UserID); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateTwitchID(req.BroadcasterID); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	user := &domain.User{
		ID:            domain.UserID(req.UserID),
		BroadcasterID: domain.BroadcasterID(req.BroadcasterID),
		Login:         utils.NormalizeLogin(req.Login),
	}

	accessToken, err := h.authService.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":        user.ID,
		"broadcaster_id": user.BroadcasterID,
		"login":          user.Login,
		"access_token":   accessToken,
		"refresh_token":  refreshToken,
		"expires_in":     int(h.accessTokenTTL / time.Second),
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.authService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.authService.GenerateToken(claims.User())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"expires_in":   int(h.accessTokenTTL / time.Second),
	})
}
