package utility

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService 提供基础的键值缓存操作，Redis 与内存两种实现语义一致：
// Get 在键不存在或已过期时返回空字符串和 nil 错误。
type CacheService interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// Scan 查找匹配 pattern（支持 * 通配符）的所有键
	Scan(ctx context.Context, pattern string) ([]string, error)
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 使用已有的 Redis 客户端创建缓存服务
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Scan 使用 SCAN 分批遍历，避免在生产环境中使用 KEYS
func (s *redisCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	var allKeys []string
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		allKeys = append(allKeys, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return allKeys, nil
}

func (s *redisCacheService) Close() error {
	return s.client.Close()
}
