package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
)

// Metrics 记录请求数、耗时和并发数；路由标签使用注册时的模板，避免高基数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
