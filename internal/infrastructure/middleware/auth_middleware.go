package middleware

import (
	"net/http"
	"strings"

	"zombiedigital/internal/core/domain"
	"zombiedigital/internal/core/ports"
	"zombiedigital/internal/core/services"
	"zombiedigital/pkg/validation"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID        = "user_id"
	ContextBroadcasterID = "broadcaster_id"
	ContextLogin         = "login"
	ContextAccess        = "access_decision"
)

func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// Store user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextBroadcasterID, claims.BroadcasterID)
		c.Set(ContextLogin, claims.Login)
		c.Next()
	}
}

// OptionalAuthMiddleware populates identity when a valid token is present and
// stays silent otherwise. The access endpoint and the relay use it so that
// anonymous requests still reach the resolver, which denies them itself.
func OptionalAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Overlay embeds cannot set headers; allow the token via query.
			if token := c.Query("token"); token != "" {
				if claims, err := authService.ValidateToken(token); err == nil {
					c.Set(ContextUserID, claims.UserID)
					c.Set(ContextBroadcasterID, claims.BroadcasterID)
					c.Set(ContextLogin, claims.Login)
				}
			}
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token := parts[1]
			if claims, err := authService.ValidateToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextBroadcasterID, claims.BroadcasterID)
				c.Set(ContextLogin, claims.Login)
			}
		}

		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID, or "" when the request
// is anonymous.
func UserIDFromContext(c *gin.Context) domain.UserID {
	if v, exists := c.Get(ContextUserID); exists {
		if id, ok := v.(domain.UserID); ok {
			return id
		}
	}
	return ""
}

// CanvasAccessMiddleware resolves the caller's access on the canvas named in
// the :id path parameter and rejects with 403 unless the decision allows
// viewing. The decision is stored in the request context for handlers.
func CanvasAccessMiddleware(accessService ports.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := validation.ValidateCanvasID(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		canvasID := domain.CanvasID(id)

		decision := accessService.ResolveAccess(c.Request.Context(), canvasID, UserIDFromContext(c))
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		c.Set(ContextAccess, decision)
		c.Next()
	}
}

// CanvasEditMiddleware additionally requires edit rights. Must run after
// CanvasAccessMiddleware.
func CanvasEditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextAccess)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		decision, ok := v.(domain.AccessDecision)
		if !ok || !decision.CanEdit {
			c.JSON(http.StatusForbidden, gin.H{"error": "edit permission required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CanvasOwnerMiddleware requires the owner role. Settings changes, deletion
// and grant management go through here.
func CanvasOwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextAccess)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		decision, ok := v.(domain.AccessDecision)
		if !ok || !decision.Role.AtLeast(domain.RoleOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": "owner permission required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
