package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// AccessLog 每个请求输出一行结构化日志；5xx 记为 error，4xx 记为 warn
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logger := logging.Ctx(c.Request.Context())

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Str("client_ip", getClientIP(c)).
			Dur("latency", time.Since(start)).
			Msg("HTTP 请求")
	}
}
