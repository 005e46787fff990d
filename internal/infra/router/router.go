package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mousephenotype/phenodcc-media/internal/app/middleware"
	lookup_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/lookup"
	mediafile_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/mediafile"
	version_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/version"
)

// NoCacheMiddleware 禁止缓存查询结果，下载器处理过程中数据会持续变化
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Options 路由级别的开关
type Options struct {
	RateLimitPerMinute int
	RateLimitBurst     int
	MetricsEnabled     bool
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	mediaFileHandler *mediafile_handler.Handler
	lookupHandler    *lookup_handler.Handler
	versionHandler   *version_handler.Handler
	opts             Options
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	mediaFileHandler *mediafile_handler.Handler,
	lookupHandler *lookup_handler.Handler,
	versionHandler *version_handler.Handler,
	opts Options,
) *Router {
	return &Router{
		mediaFileHandler: mediaFileHandler,
		lookupHandler:    lookupHandler,
		versionHandler:   versionHandler,
		opts:             opts,
	}
}

// Setup 注册全局中间件和全部路由
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Cors(),
	)
	if r.opts.MetricsEnabled {
		engine.Use(middleware.Metrics())
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(middleware.CustomRateLimit(r.opts.RateLimitPerMinute, r.opts.RateLimitBurst))

	r.registerVersionRoutes(apiGroup)
	r.registerMediaFileRoutes(apiGroup)
	r.registerLookupRoutes(apiGroup)
}

func (r *Router) registerVersionRoutes(api *gin.RouterGroup) {
	api.GET("/version", r.versionHandler.GetVersion)
	api.GET("/ping", r.versionHandler.Ping)
}

func (r *Router) registerMediaFileRoutes(api *gin.RouterGroup) {
	// 图像查看器使用的组合查询
	query := api.Group("/mediafiles").Use(NoCacheMiddleware())
	{
		query.GET("", r.mediaFileHandler.Query)
		query.GET("/:cid/:gid/:sid/:qeid", r.mediaFileHandler.QueryByPath)
	}

	files := api.Group("/media-files")
	{
		files.GET("", r.mediaFileHandler.List)
		files.GET("/count", r.mediaFileHandler.Count)
		files.GET("/:id", r.mediaFileHandler.Get)
		files.GET("/:id/content", r.mediaFileHandler.Content)
		files.GET("/:id/thumbnail", r.mediaFileHandler.Thumbnail)
	}
}

func (r *Router) registerLookupRoutes(api *gin.RouterGroup) {
	api.GET("/phases", r.lookupHandler.ListPhases)
	api.GET("/statuses", r.lookupHandler.ListStatuses)
	api.GET("/file-extensions", r.lookupHandler.ListFileExtensions)
	api.GET("/associations", r.lookupHandler.ListAssociations)
}
