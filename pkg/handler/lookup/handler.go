package lookup

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/response"
	lookup_service "github.com/mousephenotype/phenodcc-media/pkg/service/lookup"
)

// Handler 字典表与关联查询
type Handler struct {
	svc *lookup_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *lookup_service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListPhases
// @Summary      获取处理阶段
// @Tags         字典
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.Phase}
// @Router       /phases [get]
func (h *Handler) ListPhases(c *gin.Context) {
	phases, err := h.svc.ListPhases(c.Request.Context())
	if err != nil {
		h.fail(c, err, "获取处理阶段失败")
		return
	}
	response.Success(c, phases, "获取成功")
}

// ListStatuses
// @Summary      获取处理状态
// @Tags         字典
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.Status}
// @Router       /statuses [get]
func (h *Handler) ListStatuses(c *gin.Context) {
	statuses, err := h.svc.ListStatuses(c.Request.Context())
	if err != nil {
		h.fail(c, err, "获取处理状态失败")
		return
	}
	response.Success(c, statuses, "获取成功")
}

// ListFileExtensions
// @Summary      获取文件扩展名
// @Tags         字典
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.FileExtension}
// @Router       /file-extensions [get]
func (h *Handler) ListFileExtensions(c *gin.Context) {
	extensions, err := h.svc.ListFileExtensions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "获取文件扩展名失败")
		return
	}
	response.Success(c, extensions, "获取成功")
}

// ListAssociations
// @Summary      获取测量的关联参数
// @Tags         关联
// @Produce      json
// @Param        cid query int true "中心 ID"
// @Param        lid query int true "pipeline ID"
// @Param        gid query int false "基因型 ID"
// @Param        sid query int true "品系 ID"
// @Param        pid query int true "流程 ID"
// @Param        mid query int true "测量 ID"
// @Success      200 {object} response.Response{data=[]model.Association}
// @Failure      400 {object} response.Response "请求参数错误"
// @Router       /associations [get]
func (h *Handler) ListAssociations(c *gin.Context) {
	var mc model.MeasurementContext
	if err := c.ShouldBindQuery(&mc); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	associations, err := h.svc.FindAssociations(c.Request.Context(), mc)
	if err != nil {
		h.fail(c, err, "获取关联失败")
		return
	}
	response.Success(c, associations, "获取成功")
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Msg(message)
	response.Fail(c, http.StatusInternalServerError, message)
}
