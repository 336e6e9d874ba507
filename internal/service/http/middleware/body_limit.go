package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/render-relay/internal/service/http/response"
)

// multipartOverhead leaves room for the prompt field and part headers on top
// of the file cap.
const multipartOverhead = 1 << 20

// BodyLimit caps the request body before the handler reads it.
func BodyLimit(maxUploadSize int64) gin.HandlerFunc {
	limit := maxUploadSize + multipartOverhead
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.Abort(c, response.PayloadTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
