package utility

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// CacheServiceType 缓存服务类型
type CacheServiceType string

const (
	CacheTypeRedis  CacheServiceType = "redis"
	CacheTypeMemory CacheServiceType = "memory"
)

// NewCacheServiceWithFallback 创建缓存服务，redisClient 为 nil 或 ping 不通时降级到内存缓存
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		logging.Info().Msg("使用内存缓存服务")
		return NewMemoryCacheService()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Msg("Redis 不可用，降级到内存缓存")
		return NewMemoryCacheService()
	}

	logging.Info().Msg("使用 Redis 缓存服务")
	return NewCacheService(redisClient)
}

// GetCacheServiceType 获取当前使用的缓存类型
func GetCacheServiceType(svc CacheService) CacheServiceType {
	if _, ok := svc.(*redisCacheService); ok {
		return CacheTypeRedis
	}
	return CacheTypeMemory
}
