package task

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// Scheduler 封装 cron 实例，负责任务的注册、启动和停止
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler 创建调度器，表达式支持秒字段
func NewScheduler() *Scheduler {
	logger := logging.With().Str("system", "cron").Logger()

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		),
	)

	return &Scheduler{cron: c, logger: logger}
}

// Register 按 cron 表达式注册一个任务，表达式为空时跳过
func (s *Scheduler) Register(spec string, job cron.Job) error {
	name := getJobName(job)
	if spec == "" {
		s.logger.Info().Str("job_name", name).Msg("未配置执行计划，跳过该任务")
		return nil
	}
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("注册定时任务 %s 失败: %w", name, err)
	}
	s.logger.Info().Str("job_name", name).Str("schedule", spec).Msg("已注册定时任务")
	return nil
}

// Entries 返回已注册的任务数
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.logger.Info().Msg("定时任务调度器已启动")
	s.cron.Start()
}

// Stop 停止调度器并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("定时任务调度器已停止")
}
