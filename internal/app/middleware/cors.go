package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Cors 只对 /api/ 下的只读接口开放跨域，供图像查看器等前端直接调用
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			origin := c.Request.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, X-Requested-With, X-Request-ID, Range")
			c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Length, Content-Range")
			c.Header("Vary", "Origin")

			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}

		c.Next()
	}
}
