package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/app/task"
	"github.com/mousephenotype/phenodcc-media/internal/infra/persistence/database"
	ent_impl "github.com/mousephenotype/phenodcc-media/internal/infra/persistence/ent"
	"github.com/mousephenotype/phenodcc-media/internal/infra/router"
	"github.com/mousephenotype/phenodcc-media/internal/infra/storage"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/version"
	"github.com/mousephenotype/phenodcc-media/pkg/config"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	lookup_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/lookup"
	mediafile_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/mediafile"
	version_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/version"
	lookup_service "github.com/mousephenotype/phenodcc-media/pkg/service/lookup"
	"github.com/mousephenotype/phenodcc-media/pkg/service/mediacontent"
	mediafile_service "github.com/mousephenotype/phenodcc-media/pkg/service/mediafile"
	"github.com/mousephenotype/phenodcc-media/pkg/service/utility"
)

// App 封装应用的所有核心组件
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	server    *http.Server
	scheduler *task.Scheduler
	sqlDB     *sql.DB
	cacheSvc  utility.CacheService
}

// NewApp 按 配置 → 基础设施 → 仓库 → 服务 → 处理器 → 路由 的顺序构建应用。
// 返回的 cleanup 负责关闭连接池和缓存。
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logging.Init(logging.Config{
		Level:     cfg.GetStringDefault(config.KeyLogLevel, "info"),
		Format:    cfg.GetStringDefault(config.KeyLogFormat, "json"),
		Timestamp: true,
	})

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	if err := database.NewMigrationService(sqlDB, database.DBType(cfg)).RunMigrations(context.Background()); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	drv, err := database.NewDriver(sqlDB, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	// Redis 不可用时自动降级到内存缓存
	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	cleanup := func() {
		logging.Info().Msg("执行清理操作：关闭数据库连接与缓存")
		if err := cacheSvc.Close(); err != nil {
			logging.Warn().Err(err).Msg("关闭缓存失败")
		}
		if err := sqlDB.Close(); err != nil {
			logging.Warn().Err(err).Msg("关闭数据库连接失败")
		}
	}

	providers, err := storage.NewProviders(context.Background(), cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("初始化存储失败: %w", err)
	}

	// --- Phase 3: 初始化数据仓库层 ---
	catalogs := ent_impl.Catalogs{
		Media:     cfg.GetString(config.KeyCatalogMedia),
		Overviews: cfg.GetString(config.KeyCatalogOverviews),
		Impress:   cfg.GetString(config.KeyCatalogImpress),
		Embryo:    cfg.GetString(config.KeyCatalogEmbryo),
	}
	detailRepo := ent_impl.NewMediaFileDetailRepository(drv, catalogs)
	procedureMGRepo := ent_impl.NewProcedureMetadataGroupRepository(drv, catalogs)
	mgRepo := ent_impl.NewMetadataGroupRepository(drv, catalogs)
	preprocessedRepo := ent_impl.NewPreprocessedRepository(drv, catalogs)
	mediaFileRepo := ent_impl.NewMediaFileRepository(drv, catalogs)
	lookupRepo := ent_impl.NewLookupRepository(drv, catalogs)
	associationRepo := ent_impl.NewAssociationRepository(drv, catalogs)

	// --- Phase 4: 初始化服务层 ---
	mgTTL := time.Duration(cfg.GetIntDefault(config.KeyCacheMetadataGroupTTL, 0)) * time.Second
	resolve := mediafile_service.CachedResolver(mediafile_service.RepositoryResolver(mgRepo), cacheSvc, mgTTL)
	mediaFileSvc := mediafile_service.NewService(detailRepo, procedureMGRepo, mgRepo, preprocessedRepo, mediaFileRepo, resolve)
	presignTTL := time.Duration(cfg.GetIntDefault(config.KeyStoragePresignSeconds, 3600)) * time.Second
	contentSvc := mediacontent.NewService(mediaFileRepo, providers, presignTTL)
	lookupSvc := lookup_service.NewService(lookupRepo, associationRepo)

	// --- Phase 5: 初始化处理器与路由 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	router.NewRouter(
		mediafile_handler.NewHandler(mediaFileSvc, contentSvc).
			WithStreamLimit(int64(cfg.GetIntDefault(config.KeyStorageStreamBytesPerSecond, 0))),
		lookup_handler.NewHandler(lookupSvc),
		version_handler.NewHandler(sqlDB),
		router.Options{
			RateLimitPerMinute: cfg.GetIntDefault(config.KeyRateLimitPerMinute, 600),
			RateLimitBurst:     cfg.GetIntDefault(config.KeyRateLimitBurst, 100),
			MetricsEnabled:     cfg.GetBool(config.KeyMetricsEnabled),
		},
	).Setup(engine)

	// --- Phase 6: 定时任务 ---
	scheduler := task.NewScheduler()
	if mgTTL > 0 {
		err = scheduler.Register(cfg.GetString(config.KeyTaskCacheEvictSpec),
			task.NewCacheEvictJob(cacheSvc, constant.CacheKeyMetadataGroupPrefix))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	if err := scheduler.Register(cfg.GetString(config.KeyTaskPoolStatsSpec), task.NewPoolStatsJob(sqlDB)); err != nil {
		cleanup()
		return nil, nil, err
	}

	logging.Info().
		Str("version", version.GetVersionString()).
		Str("db", database.DBType(cfg)).
		Str("cache", string(utility.GetCacheServiceType(cacheSvc))).
		Dur("metadata_group_ttl", mgTTL).
		Msg("应用初始化完成")

	port := cfg.GetStringDefault(config.KeyServerPort, "8091")
	app := &App{
		cfg:    cfg,
		engine: engine,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: scheduler,
		sqlDB:     sqlDB,
		cacheSvc:  cacheSvc,
	}
	return app, cleanup, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) DB() *sql.DB {
	return a.sqlDB
}

// Run 启动定时任务并阻塞监听 HTTP，Stop 后返回 nil
func (a *App) Run() error {
	a.scheduler.Start()
	logging.Info().Str("addr", a.server.Addr).Msg("应用程序启动成功，正在监听端口")

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 停止接收新请求，等待处理中的请求完成后停止定时任务
func (a *App) Stop(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("HTTP 服务关闭超时")
	}
	a.scheduler.Stop()
}
