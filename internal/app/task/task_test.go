package task

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/metrics"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/service/utility"
)

func TestCacheEvictJob(t *testing.T) {
	ctx := context.Background()
	cache := utility.NewMemoryCacheService()
	defer cache.Close()

	for _, k := range []string{"a1b2", "c3d4"} {
		if err := cache.Set(ctx, constant.CacheKeyMetadataGroupPrefix+k, "{}", time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := cache.Set(ctx, "other:key", "x", time.Minute); err != nil {
		t.Fatal(err)
	}

	before := testutil.ToFloat64(metrics.CacheEvictions)
	job := NewCacheEvictJob(cache, constant.CacheKeyMetadataGroupPrefix)
	n, err := job.Evict(ctx)
	if err != nil {
		t.Fatalf("Evict() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Evict() = %d, want 2", n)
	}
	if got := testutil.ToFloat64(metrics.CacheEvictions) - before; got != 2 {
		t.Errorf("cache_evictions_total 增加了 %v, want 2", got)
	}
	if v, _ := cache.Get(ctx, "other:key"); v != "x" {
		t.Error("不应清除其它前缀的键")
	}

	n, err = job.Evict(ctx)
	if err != nil || n != 0 {
		t.Errorf("再次清除 = (%d, %v), want (0, nil)", n, err)
	}
}

type fakeStats struct{ stats sql.DBStats }

func (f fakeStats) Stats() sql.DBStats { return f.stats }

func TestPoolStatsJob(t *testing.T) {
	NewPoolStatsJob(fakeStats{sql.DBStats{OpenConnections: 4, InUse: 1, WaitCount: 9}}).Run()

	if got := testutil.ToFloat64(metrics.DBOpenConnections); got != 4 {
		t.Errorf("db_open_connections = %v", got)
	}
	if got := testutil.ToFloat64(metrics.DBInUseConnections); got != 1 {
		t.Errorf("db_in_use_connections = %v", got)
	}
}

type panicJob struct{}

func (panicJob) Run()         { panic("boom") }
func (panicJob) Name() string { return "panicJob" }

func TestWrappers(t *testing.T) {
	s := NewScheduler()

	t.Run("panic 不会向外传播", func(t *testing.T) {
		wrapped := cron.NewChain(NewPanicRecoveryWrapper(s.logger), NewLoggingWrapper(s.logger)).Then(panicJob{})
		wrapped.Run()
	})

	t.Run("任务名称", func(t *testing.T) {
		if got := getJobName(panicJob{}); got != "panicJob" {
			t.Errorf("getJobName() = %q", got)
		}
		if got := getJobName(cron.FuncJob(func() {})); got != "cron.FuncJob" {
			t.Errorf("getJobName() = %q", got)
		}
	})
}

func TestSchedulerRegister(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		wantErr     bool
		wantEntries int
	}{
		{"六段表达式", "0 */10 * * * *", false, 1},
		{"空表达式跳过", "", false, 0},
		{"非法表达式", "every minute", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler()
			err := s.Register(tt.spec, panicJob{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := s.Entries(); got != tt.wantEntries {
				t.Errorf("Entries() = %d, want %d", got, tt.wantEntries)
			}
		})
	}
}
