// Package middleware holds gin middleware shared by the HTTP handlers.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

const (
	headerAPIKey = "X-API-Key"
	headerAuth   = "Authorization"
	bearerPrefix = "Bearer "

	// OwnerIDKey is the gin context key the authenticated owner id is
	// stored under.
	OwnerIDKey = "ownerID"
)

// APIKeyAuth authenticates requests by API key and resolves the key to the
// owner identity every downstream operation is scoped to.
type APIKeyAuth struct {
	// keys maps an API key to the owner id it belongs to.
	keys map[string]string
}

// NewAPIKeyAuth creates the middleware. keys maps API key → owner id; empty
// keys are dropped. With no keys configured every request is rejected.
func NewAPIKeyAuth(keys map[string]string) *APIKeyAuth {
	filtered := make(map[string]string, len(keys))
	for key, owner := range keys {
		if key != "" && owner != "" {
			filtered[key] = owner
		}
	}
	return &APIKeyAuth{keys: filtered}
}

// Handler returns the gin middleware. It checks the X-API-Key header first,
// then Authorization: Bearer. On success the owner id is stored in the
// request context under OwnerIDKey; otherwise the request is aborted with
// 401 before any handler runs.
func (a *APIKeyAuth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := extractAPIKey(c)

		ownerID, ok := a.resolveOwner(apiKey)
		if !ok {
			logger.Log.Warn("unauthorized request",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("remoteAddr", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner id set by the middleware.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}

func extractAPIKey(c *gin.Context) string {
	if apiKey := c.GetHeader(headerAPIKey); apiKey != "" {
		return apiKey
	}

	authHeader := c.GetHeader(headerAuth)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	return ""
}

// resolveOwner finds the owner for the provided key using constant-time
// comparison to prevent timing attacks.
func (a *APIKeyAuth) resolveOwner(providedKey string) (string, bool) {
	if providedKey == "" || len(a.keys) == 0 {
		return "", false
	}

	ownerID := ""
	found := false
	for validKey, owner := range a.keys {
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(validKey)) == 1 {
			ownerID = owner
			found = true
		}
	}
	return ownerID, found
}
