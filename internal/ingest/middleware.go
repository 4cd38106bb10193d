package ingest

import (
	"net/http"

	"prospectmap_backend/internal/auth/token"
	"prospectmap_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the shared secret of the search automation.
const HeaderAPIKey = "X-Webhook-API-Key"

// APIKeyAuthMiddleware validates the X-Webhook-API-Key header against the
// configured key. Only the key's digest is kept in memory.
func APIKeyAuthMiddleware(expected string) gin.HandlerFunc {
	digest := token.Digest(expected)
	return func(c *gin.Context) {
		apiKey := c.GetHeader(HeaderAPIKey)
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpkit.ErrorResponse{Error: "missing API key"})
			return
		}
		if !token.Matches(apiKey, digest) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpkit.ErrorResponse{Error: "invalid API key"})
			return
		}
		c.Next()
	}
}
