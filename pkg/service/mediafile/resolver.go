package mediafile

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
	"github.com/mousephenotype/phenodcc-media/pkg/service/utility"
)

// RepositoryResolver 直接查询数据库
func RepositoryResolver(repo repository.MetadataGroupRepository) MetadataGroupResolver {
	return func(ctx context.Context, metadataGroup string) (*model.MetadataGroupToValues, error) {
		g, err := repo.FindByMetadataGroup(ctx, metadataGroup)
		if err == nil {
			metrics.RecordMetadataGroupLookup(metrics.LookupResolved)
		}
		return g, err
	}
}

// CachedResolver 在 next 之前查询跨请求缓存，只缓存查找成功的结果。
// ttl <= 0 时直接返回 next。
func CachedResolver(next MetadataGroupResolver, cache utility.CacheService, ttl time.Duration) MetadataGroupResolver {
	if cache == nil || ttl <= 0 {
		return next
	}
	return func(ctx context.Context, metadataGroup string) (*model.MetadataGroupToValues, error) {
		key := constant.CacheKeyMetadataGroupPrefix + metadataGroup
		log := logging.Ctx(ctx)

		if raw, err := cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("读取元数据组缓存失败")
		} else if raw != "" {
			var g model.MetadataGroupToValues
			if err := json.Unmarshal([]byte(raw), &g); err == nil {
				metrics.RecordMetadataGroupLookup(metrics.LookupCached)
				return &g, nil
			}
			log.Warn().Str("key", key).Msg("元数据组缓存内容无法解析，已忽略")
		}

		g, err := next(ctx, metadataGroup)
		if err != nil || g == nil {
			return g, err
		}
		if raw, err := json.Marshal(g); err == nil {
			if err := cache.Set(ctx, key, string(raw), ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("写入元数据组缓存失败")
			}
		}
		return g, nil
	}
}
