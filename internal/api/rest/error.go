package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/logger"
)

// Error responses are flat: 400 carries {"error": msg}, 500 carries
// {"error": msg, "details": raw} with details included in debug mode only,
// so internal error text never leaks to production callers.

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// respondInternalError sends a 500 Internal Server Error response and logs
// the underlying error with request context
func (h *handler) respondInternalError(c *gin.Context, err error, message string) {
	logger.Error(err,
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")),
	)

	body := gin.H{"error": message}
	if h.debug && err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
