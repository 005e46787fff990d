package database

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/config"
)

// NewRedisClient 返回 Redis 客户端；未配置或连接失败时返回 nil，由上层降级到内存缓存
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	if redisAddr == "" {
		logging.Info().Msg("Redis 地址未配置，将使用内存缓存")
		return nil, nil
	}

	redisDB := 0
	if s := cfg.GetString(config.KeyRedisDB); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			logging.Warn().Str("value", s).Err(err).Msg("无效的 Redis.DB 值，将使用内存缓存")
			return nil, nil
		}
		redisDB = n
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.GetString(config.KeyRedisPassword),
		DB:       redisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Warn().Str("addr", redisAddr).Int("db", redisDB).Err(err).Msg("连接 Redis 失败，将使用内存缓存")
		rdb.Close()
		return nil, nil
	}

	logging.Info().Str("addr", redisAddr).Int("db", redisDB).Msg("成功连接到 Redis")
	return rdb, nil
}
