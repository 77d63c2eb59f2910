// Package middleware holds the request filters shared across routes: trace
// logging, the role authorizer, the server-to-server gate and the page-level
// gatekeeper.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/users"
	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
)

type Mid struct {
	resolver auth.Resolver
	users    users.Conf
}

func NewMid(resolver auth.Resolver, u users.Conf) (*Mid, error) {
	if resolver == nil {
		return nil, fmt.Errorf("identity resolver is nil")
	}
	return &Mid{resolver: resolver, users: u}, nil
}

// authorize is the role authorizer: extract a token, resolve it against the
// identity provider, look up the application role, compare. It runs fresh on
// every privileged request; there is no session cache.
func (m *Mid) authorize(c *gin.Context, requiredRole string) (auth.Identity, *auth.Denial) {
	token, ok := auth.ExtractToken(c.Request)
	if !ok {
		return auth.Identity{}, &auth.Denial{Status: http.StatusUnauthorized, Message: "Unauthorized: missing token"}
	}

	identity, err := m.resolver.ResolveToken(c.Request.Context(), token)
	if err != nil {
		return auth.Identity{}, &auth.Denial{Status: http.StatusUnauthorized, Message: "Unauthorized: invalid token"}
	}

	if requiredRole == "" {
		return identity, nil
	}

	role, err := m.users.GetUserRole(c.Request.Context(), identity.ID)
	if err != nil {
		return auth.Identity{}, &auth.Denial{Status: http.StatusInternalServerError, Message: "Failed to fetch app user"}
	}
	if role != requiredRole {
		return auth.Identity{}, &auth.Denial{Status: http.StatusForbidden, Message: fmt.Sprintf("Forbidden: %s only", requiredRole)}
	}

	return identity, nil
}

// Authentication resolves the caller's identity into the request context
// without any role requirement. Routes that need ownership checks read it
// back with auth.IdentityFromContext.
func (m *Mid) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.GetTraceIdOfRequest(c)

		identity, denial := m.authorize(c, "")
		if denial != nil {
			slog.Error("authentication failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, denial.Message))
			c.AbortWithStatusJSON(denial.Status, gin.H{"error": denial.Message})
			return
		}

		ctx := context.WithValue(c.Request.Context(), auth.IdentityKey, identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Authorize wraps a handler with a role requirement.
func (m *Mid) Authorize(next gin.HandlerFunc, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.GetTraceIdOfRequest(c)

		identity, denial := m.authorize(c, requiredRole)
		if denial != nil {
			slog.Error("authorization failed", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, denial.Message), slog.String("required_role", requiredRole))
			c.AbortWithStatusJSON(denial.Status, gin.H{"error": denial.Message})
			return
		}

		ctx := context.WithValue(c.Request.Context(), auth.IdentityKey, identity)
		c.Request = c.Request.WithContext(ctx)
		next(c)
	}
}
