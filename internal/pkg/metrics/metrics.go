// Package metrics 汇总服务暴露给 Prometheus 的全部指标
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "phenodcc_media"

// 元数据组查找结果
const (
	LookupResolved = "resolved"
	LookupCached   = "cached"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Current number of in-flight HTTP requests",
		},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of requests rejected by the per-IP rate limiter",
		},
	)

	// 媒体文件查询
	DetailQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_queries_total",
			Help:      "Media file detail queries by kind (mutant, baseline) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	DetailRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detail_rows_per_response",
			Help:      "Number of detail rows returned per media file query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	MetadataGroupLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_group_lookups_total",
			Help:      "Metadata group lookups by result",
		},
		[]string{"result"},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of cache entries removed by the eviction job",
		},
	)

	// 连接池
	DBOpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Open database connections (in use + idle)",
		},
	)

	DBInUseConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_in_use_connections",
			Help:      "Database connections currently in use",
		},
	)

	DBWaitCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connection_waits",
			Help:      "Total number of connections waited for",
		},
	)
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest 增减正在处理的请求数
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordDetailQuery 记录一次明细查询；kind 为 mutant 或 baseline
func RecordDetailQuery(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DetailQueries.WithLabelValues(kind, outcome).Inc()
}

// RecordMetadataGroupLookup 记录一次元数据组查找
func RecordMetadataGroupLookup(result string) {
	MetadataGroupLookups.WithLabelValues(result).Inc()
}

// UpdateDBStats 用连接池统计刷新连接池指标
func UpdateDBStats(stats sql.DBStats) {
	DBOpenConnections.Set(float64(stats.OpenConnections))
	DBInUseConnections.Set(float64(stats.InUse))
	DBWaitCount.Set(float64(stats.WaitCount))
}
