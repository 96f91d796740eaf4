package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API's error envelope is {"error": "..."} with conventional status
// codes. Success payloads are endpoint-shaped. The request id travels in the
// X-Request-ID header rather than the body.

func JSON(c *gin.Context, status int, payload any) {
	setRequestID(c)
	c.JSON(status, payload)
}

func Error(c *gin.Context, status int, message string) {
	setRequestID(c)
	c.JSON(status, gin.H{"error": message})
}

// AbortError is Error for middleware: it also stops the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	setRequestID(c)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Internal logs nothing itself; callers log the cause. The client only ever
// sees a generic message.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func setRequestID(c *gin.Context) {
	if id := c.GetString("request_id"); id != "" {
		c.Header("X-Request-ID", id)
	}
}
