package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// ServiceRoleHeader authorizes server-to-server calls that bypass per-user
// authorization.
const ServiceRoleHeader = "X-Service-Role"

// ServiceGate admits only requests whose X-Service-Role header matches the
// configured shared secret.
func ServiceGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.GetTraceIdOfRequest(c)

		header := c.GetHeader(ServiceRoleHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
			slog.Error("service role header mismatch", slog.String(logkey.TraceID, traceId),
				slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
