package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is where the request id middleware stores the id in the gin context.
const RequestIDKey = "request_id"

// RequestIDFields adds the request id to each access log entry.
func RequestIDFields(c *gin.Context) []zapcore.Field {
	if id := c.GetString(RequestIDKey); id != "" {
		return []zapcore.Field{zap.String(RequestIDKey, id)}
	}
	return nil
}

// RecoveryResponse answers a recovered panic with the standard error envelope.
func RecoveryResponse(c *gin.Context, _ any) {
	Error(c, http.StatusInternalServerError, 50000, "internal server error")
	c.Abort()
}
