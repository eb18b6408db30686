package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leap-pm/ads-service/internal/platform/ctxutil"
)

const (
	headerUserID    = "X-User-Id"
	headerSessionID = "X-Session-Id"
)

// AttachRequestContext captures the caller identity the platform gateway
// forwards. Both headers are optional; anonymous traffic still gets the
// client IP and user agent for tracking and rate limiting.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if v := strings.TrimSpace(c.GetHeader(headerUserID)); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				rd.UserID = id
			}
		}
		if v := strings.TrimSpace(c.GetHeader(headerSessionID)); v != "" {
			if id, err := uuid.Parse(v); err == nil {
				rd.SessionID = id
			}
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
