package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type key string

const TraceIdKey key = "1"

// SetTraceIdOfRequest stores the trace id on the request context so every
// layer below the router can log with it.
func SetTraceIdOfRequest(c *gin.Context, traceId string) {
	ctx := context.WithValue(c.Request.Context(), TraceIdKey, traceId)
	c.Request = c.Request.WithContext(ctx)
}

func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Request.Context().Value(TraceIdKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}
