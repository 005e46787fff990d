package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mousephenotype/phenodcc-media/cmd/server"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// @title           PhenoDCC Media API
// @version         1.0
// @description     小鼠表型数据媒体文件元数据查询接口
// @BasePath        /api
func main() {
	app, cleanup, err := server.NewApp()
	if err != nil {
		logging.Fatal().Err(err).Msg("应用初始化失败")
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error().Err(err).Msg("应用运行失败")
		}
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("收到退出信号，开始优雅关闭")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	app.Stop(ctx)
}
