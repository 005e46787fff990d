package task

import (
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobWrapper 是 cron.JobWrapper 的类型别名
type JobWrapper = cron.JobWrapper

// NewLoggingWrapper 为每次执行生成唯一的执行 ID，记录开始与结束
func NewLoggingWrapper(logger zerolog.Logger) JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			jobLogger := logger.With().
				Str("job_name", getJobName(j)).
				Str("execution_id", uuid.New().String()).
				Logger()

			startTime := time.Now()
			jobLogger.Debug().Msg("定时任务开始执行")

			j.Run()

			jobLogger.Debug().Dur("duration", time.Since(startTime)).Msg("定时任务执行完毕")
		})
	}
}

// NewPanicRecoveryWrapper 捕获任务中的 panic 并记录堆栈，不影响其它任务
func NewPanicRecoveryWrapper(logger zerolog.Logger) JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Str("job_name", getJobName(j)).
						Interface("panic", r).
						Str("stack_trace", string(debug.Stack())).
						Msg("定时任务发生 panic")
				}
			}()

			j.Run()
		})
	}
}

// getJobName 优先使用任务的 Name() 方法，否则取类型名
func getJobName(j cron.Job) string {
	if namedJob, ok := j.(interface{ Name() string }); ok {
		return namedJob.Name()
	}
	jobType := reflect.TypeOf(j)
	if jobType.Kind() == reflect.Ptr {
		return jobType.Elem().String()
	}
	return jobType.String()
}
