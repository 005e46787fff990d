package version

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/version"
	"github.com/mousephenotype/phenodcc-media/pkg/response"
)

// Pinger 用于检查数据库连接，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler 版本信息与存活检查
type Handler struct {
	db Pinger
}

// NewHandler 创建版本信息处理器实例，db 为 nil 时 Ping 只检查进程本身
func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// GetVersion 获取版本信息
// @Summary      获取版本信息
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response{data=version.BuildInfo}  "版本信息"
// @Router       /version [get]
func (h *Handler) GetVersion(c *gin.Context) {
	noCache(c)
	response.Success(c, version.GetBuildInfo(), "获取版本信息成功")
}

// Ping 存活检查
// @Summary      存活检查
// @Tags         辅助工具
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response  "数据库不可用"
// @Router       /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	noCache(c)
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("数据库存活检查失败")
			response.Fail(c, http.StatusServiceUnavailable, "数据库不可用")
			return
		}
	}
	response.Success(c, gin.H{"version": version.GetVersionString()}, "pong")
}
