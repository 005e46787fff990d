package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/response"
)

// ipRateLimiter 为每个 IP 维护一个令牌桶
type ipRateLimiter struct {
	limiters          map[string]*limiterInfo
	mu                sync.Mutex
	requestsPerMinute int
	burst             int
	idleTimeout       time.Duration
}

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		idleTimeout:       10 * time.Minute,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	info, exists := i.limiters[ip]
	if !exists {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst),
		}
		i.limiters[ip] = info
	}
	info.lastAccessed = now
	return info.limiter
}

// cleanup 删除超过 idleTimeout 未访问的限流器
func (i *ipRateLimiter) cleanup(now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, info := range i.limiters {
		if now.Sub(info.lastAccessed) > i.idleTimeout {
			delete(i.limiters, ip)
			removed++
		}
	}
	return removed
}

func (i *ipRateLimiter) runCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		i.cleanup(now)
	}
}

// getClientIP 依次取 X-Real-IP、X-Forwarded-For 的第一个地址、RemoteAddr
func getClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		if first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

// CustomRateLimit 按客户端 IP 限流；requestsPerMinute 不大于 0 时不限流
func CustomRateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := newIPRateLimiter(requestsPerMinute, burst)
	go limiter.runCleanup(5 * time.Minute)

	return func(c *gin.Context) {
		if !limiter.getLimiter(getClientIP(c)).Allow() {
			metrics.RateLimitRejections.Inc()
			response.AbortWithFail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
