package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/respond"
)

// Recovery turns a panic into the generic 500 envelope; the panic value is
// logged, never returned to the client.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorf("panic serving %s %s rid=%s: %v", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), recovered)
		respond.InternalError(c)
	})
}
