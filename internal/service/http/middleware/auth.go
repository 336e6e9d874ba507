package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/service/http/response"
)

// Auth lets the request through only when the x-api-key header equals privateKey.
func Auth(privateKey string) gin.HandlerFunc {
	expected := []byte(privateKey)
	return func(c *gin.Context) {
		got := c.GetHeader(consts.PrivateKeyHeader)
		if got == "" || privateKey == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			logs.FromContext(c.Request.Context()).Warn().Str("client_ip", c.ClientIP()).Msg("rejected api key")
			response.Abort(c, response.Unauthorized)
			return
		}
		c.Next()
	}
}
