package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"

	"conversational-commerce/pkg/response"
)

// RequestLogger logs one line per request with its status and latency.
func (m Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		switch {
		case status >= 500:
			m.l.Errorf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		case status >= 400:
			m.l.Warnf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		default:
			m.l.Debugf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		}
	}
}

// InternalAuth rejects requests without the configured internal key.
func (m Middleware) InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" {
			c.Next()
			return
		}
		got := c.GetHeader(InternalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.internalKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "internal.middleware.InternalAuth: rejected %s %s", c.Request.Method, c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
