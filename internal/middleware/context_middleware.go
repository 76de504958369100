package middleware

import (
	"time"

	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger tags each request with an id (taken from X-Request-ID when
// the client sent one), puts a logger carrying it on the request context and
// writes one access line when the handler chain returns.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	base := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(contextutil.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(contextutil.RequestIDHeader, rid)
		c.Set("request_id", rid)

		reqLogger := base.With(zap.String("request_id", rid))
		ctx := contextutil.WithLogger(contextutil.WithRequestID(c.Request.Context(), rid), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid := c.GetString("user_id_validated"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if c.Writer.Status() >= 500 {
			reqLogger.Error("request", fields...)
			return
		}
		reqLogger.Info("request", fields...)
	}
}
