package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDCtxKey = "request_id"
	requestIDHeader = "X-Request-ID"
)

// HandleRequestIDMiddleware tags every request with an id, reusing the
// caller's X-Request-ID when present.
func (h *handlerImpl) HandleRequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)
	c.Next()
}

// HandleAccessLogMiddleware writes one structured log line per
// completed request.
func (h *handlerImpl) HandleAccessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	requestID, _ := c.Get(requestIDCtxKey)
	event := h.logger.Info()
	if len(c.Errors) > 0 {
		event = h.logger.Error().
			Str("errors", c.Errors.String())
	}

	event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("duration", time.Since(start)).
		Any("request_id", requestID).
		Msg("handled request")
}
