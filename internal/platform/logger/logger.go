// Package logger carries a request-scoped *slog.Logger through context.Context.
package logger

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back to clients so a failed scan can be matched to server logs.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

type loggerKeyType string

const loggerKey loggerKeyType = "loggerKey"

// Set returns a copy of ctx carrying l.
func Set(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Get returns the logger stored in ctx, or slog.Default() when there is none.
func Get(ctx context.Context) *slog.Logger {
	if v := ctx.Value(loggerKey); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// Middleware attaches a logger tagged with a request ID to every request context.
// An incoming X-Request-ID header is reused when present and short enough.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		l := slog.Default().With("request_id", id)
		c.Request = c.Request.WithContext(Set(c.Request.Context(), l))
		c.Next()
	}
}
