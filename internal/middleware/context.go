package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	ctxutil "github.com/llamacto/llama-gin/pkg/context"
	"github.com/llamacto/llama-gin/pkg/logger"
)

// ContextMiddleware stamps every request context with a request ID, client IP
// and start time, and bounds it by timeout when positive. The request ID is
// echoed in the X-Request-ID response header.
func ContextMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "http", c.FullPath())
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())

		if timeout > 0 {
			var cancel func()
			ctx, cancel = ctxutil.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Header(constants.HeaderXRequestID, ctxutil.GetRequestID(ctx))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.DebugWithContext(ctx, "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}
