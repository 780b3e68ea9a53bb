// Package respond writes the JSON error envelopes shared by every endpoint:
//
//	{"statusCode": 400, "error": "Bad Request", "messages": ["..."]}
//	{"statusCode": 404, "error": "Not Found", "message": "..."}
//	{"statusCode": 500, "error": "Internal Server Error", "message": "..."}
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const internalMessage = "An unexpected error occurred."

func BadRequest(c *gin.Context, messages ...string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"statusCode": http.StatusBadRequest,
		"error":      http.StatusText(http.StatusBadRequest),
		"messages":   messages,
	})
}

func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"statusCode": http.StatusNotFound,
		"error":      http.StatusText(http.StatusNotFound),
		"message":    message,
	})
}

// InternalError never leaks the underlying error to the client.
func InternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"statusCode": http.StatusInternalServerError,
		"error":      http.StatusText(http.StatusInternalServerError),
		"message":    internalMessage,
	})
}
