package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// HeaderRequestID 请求 ID 使用的头部
const HeaderRequestID = "X-Request-ID"

// RequestID 沿用客户端传入的请求 ID，没有时生成一个，并写回响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = logging.GenerateRequestID()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
