package task

import (
	"database/sql"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
)

// StatsSource 提供连接池统计，*sql.DB 满足该接口
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolStatsJob 把连接池状态同步到 Prometheus
type PoolStatsJob struct {
	db StatsSource
}

func NewPoolStatsJob(db StatsSource) *PoolStatsJob {
	return &PoolStatsJob{db: db}
}

func (j *PoolStatsJob) Run() {
	metrics.UpdateDBStats(j.db.Stats())
}

func (j *PoolStatsJob) Name() string {
	return "PoolStatsJob"
}
