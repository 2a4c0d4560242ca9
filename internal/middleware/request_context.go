package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ymori/careertrack/internal/pkg/audit"
)

// RequestContext builds the per-request audit logger and attaches it to the
// request context. Every later stage of the pipeline, middleware and handler
// alike, reaches it through audit.FromContext.
func RequestContext(environment string, resolver audit.IdentityResolver, recorder audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		auditLogger := audit.NewLogger(c.Request, environment, resolver, recorder, log.Logger)

		ctx := audit.WithContext(c.Request.Context(), auditLogger)
		c.Request = c.Request.WithContext(ctx)

		// Echo the id so clients and upstream proxies can correlate
		c.Header("X-Request-ID", auditLogger.RequestID())

		c.Next()
	}
}
