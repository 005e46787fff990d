package task

import (
	"context"
	"time"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/service/utility"
)

// CacheEvictJob 周期性清空元数据组缓存，保证数据库中的修改最终可见
type CacheEvictJob struct {
	cache  utility.CacheService
	prefix string
}

// NewCacheEvictJob 清除所有以 prefix 开头的缓存键
func NewCacheEvictJob(cache utility.CacheService, prefix string) *CacheEvictJob {
	return &CacheEvictJob{cache: cache, prefix: prefix}
}

func (j *CacheEvictJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.Evict(ctx)
	if err != nil {
		logging.Error().Err(err).Str("job_name", j.Name()).Msg("清除缓存失败")
		return
	}
	logging.Debug().Int("evicted", n).Str("job_name", j.Name()).Msg("缓存清除完成")
}

// Evict 执行一次清除并返回删除的键数
func (j *CacheEvictJob) Evict(ctx context.Context) (int, error) {
	keys, err := j.cache.Scan(ctx, j.prefix+"*")
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := j.cache.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	metrics.CacheEvictions.Add(float64(len(keys)))
	return len(keys), nil
}

func (j *CacheEvictJob) Name() string {
	return "CacheEvictJob"
}
