package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/woodez-kubernetes/workout-api/internal/domain"
	"github.com/woodez-kubernetes/workout-api/internal/service"
)

// Constants for context keys
const (
	ContextUserKey     = "currentUser"
	ContextTokenKeyKey = "tokenKey"
)

// AuthMiddleware creates a Gin middleware for token authentication. The
// scheme is "Authorization: Token <key>"; the key is looked up server-side
// so revoked tokens fail immediately.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenKey, ok := extractTokenKey(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing or malformed. Expected: Token <key>")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), tokenKey)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				abortWithError(c, http.StatusInternalServerError, "Authentication failed")
			}
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKeyKey, tokenKey)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when an Authorization header is
// present but lets anonymous requests through. Used on public reads where
// visibility still depends on who is asking. A header that is present but
// invalid is rejected rather than silently downgraded to anonymous.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		tokenKey, ok := extractTokenKey(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is malformed. Expected: Token <key>")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), tokenKey)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			} else {
				abortWithError(c, http.StatusInternalServerError, "Authentication failed")
			}
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKeyKey, tokenKey)
		c.Next()
	}
}

func extractTokenKey(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Token") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// getCurrentUser returns the authenticated user set by AuthMiddleware, or
// nil on routes using OptionalAuthMiddleware with no credentials.
func getCurrentUser(c *gin.Context) *domain.User {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := raw.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// getTokenKey returns the raw token key for the current request. Only set
// on authenticated requests; Logout uses it to revoke the exact token.
func getTokenKey(c *gin.Context) string {
	raw, exists := c.Get(ContextTokenKeyKey)
	if !exists {
		return ""
	}
	key, _ := raw.(string)
	return key
}
