package mediafile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/utils"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/response"
	"github.com/mousephenotype/phenodcc-media/pkg/service/mediacontent"
	mediafile_service "github.com/mousephenotype/phenodcc-media/pkg/service/mediafile"
)

var offeredFormats = []string{binding.MIMEJSON, binding.MIMEXML}

// Handler 封装了媒体文件相关的 HTTP 处理器。
type Handler struct {
	svc        *mediafile_service.Service
	contentSvc *mediacontent.Service
	// 本地输出媒体内容时每秒最多写出的字节数，0 表示不限速
	streamLimit int64
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *mediafile_service.Service, contentSvc *mediacontent.Service) *Handler {
	return &Handler{svc: svc, contentSvc: contentSvc}
}

// WithStreamLimit 设置单个请求输出媒体内容的速度上限
func (h *Handler) WithStreamLimit(bytesPerSecond int64) *Handler {
	h.streamLimit = bytesPerSecond
	return h
}

// Query
// @Summary      查询媒体文件明细
// @Description  按中心、基因型、品系和参数查询媒体文件，可选 pipeline、流程以及是否合并野生型基线
// @Tags         媒体文件
// @Produce      json,xml
// @Param        cid query int true "中心 ID"
// @Param        lid query int false "pipeline ID"
// @Param        gid query int true "基因型 ID"
// @Param        sid query int true "品系 ID"
// @Param        pid query int false "流程 ID"
// @Param        qeid query string true "参数 key"
// @Param        includeBaseline query bool false "是否合并基线数据"
// @Success      200 {object} model.MediaFileDetailsPack
// @Failure      400 {object} response.Response "参数格式错误"
// @Router       /mediafiles [get]
func (h *Handler) Query(c *gin.Context) {
	var filter model.MediaFileFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	h.respondPack(c, &filter)
}

// QueryByPath 与 Query 相同，但中心、基因型、品系和参数放在路径中
// @Router       /mediafiles/{cid}/{gid}/{sid}/{qeid} [get]
func (h *Handler) QueryByPath(c *gin.Context) {
	var filter model.MediaFileFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}
	if err := c.ShouldBindUri(&filter); err != nil {
		response.Fail(c, http.StatusBadRequest, "路径参数无效: "+err.Error())
		return
	}
	h.respondPack(c, &filter)
}

func (h *Handler) respondPack(c *gin.Context, filter *model.MediaFileFilter) {
	pack := h.svc.FindMediaFiles(c.Request.Context(), filter)
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered: offeredFormats,
		Data:    pack,
	})
}

// Get
// @Summary      获取单个媒体文件
// @Tags         媒体文件
// @Produce      json
// @Param        id path int true "媒体文件 ID"
// @Success      200 {object} response.Response{data=model.MediaFile}
// @Failure      404 {object} response.Response "媒体文件不存在"
// @Router       /media-files/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	mf, err := h.svc.GetMediaFile(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err, "获取媒体文件失败")
		return
	}
	response.Success(c, mf, "获取成功")
}

// List
// @Summary      分页获取媒体文件
// @Tags         媒体文件
// @Produce      json
// @Param        page query int false "页码，默认 1"
// @Param        pageSize query int false "每页数量，默认 20，最大 1000"
// @Success      200 {object} response.Response{data=model.PageResult[model.MediaFile]}
// @Router       /media-files [get]
func (h *Handler) List(c *gin.Context) {
	var page model.PaginationInput
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Fail(c, http.StatusBadRequest, "分页参数无效: "+err.Error())
		return
	}
	result, err := h.svc.ListMediaFiles(c.Request.Context(), &page)
	if err != nil {
		failWithError(c, err, "获取媒体文件列表失败")
		return
	}
	response.Success(c, result, "获取列表成功")
}

// Count
// @Summary      统计媒体文件数量
// @Tags         媒体文件
// @Produce      json
// @Success      200 {object} response.Response{data=int}
// @Router       /media-files/count [get]
func (h *Handler) Count(c *gin.Context) {
	n, err := h.svc.CountMediaFiles(c.Request.Context())
	if err != nil {
		failWithError(c, err, "统计媒体文件失败")
		return
	}
	response.Success(c, n, "统计成功")
}

// Content 返回原始媒体文件：对象存储重定向到预签名链接，本地存储直接输出
// @Router       /media-files/{id}/content [get]
func (h *Handler) Content(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	content, err := h.contentSvc.Original(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err, "获取媒体文件内容失败")
		return
	}
	h.writeContent(c, content)
}

// Thumbnail 返回媒体文件的缩略图
// @Router       /media-files/{id}/thumbnail [get]
func (h *Handler) Thumbnail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	content, err := h.contentSvc.Thumbnail(c.Request.Context(), id)
	if err != nil {
		failWithError(c, err, "获取缩略图失败")
		return
	}
	h.writeContent(c, content)
}

func (h *Handler) writeContent(c *gin.Context, content *mediacontent.Content) {
	if content.RedirectURL != "" {
		c.Redirect(http.StatusFound, content.RedirectURL)
		return
	}
	obj := content.Object
	defer obj.Body.Close()

	if !obj.ModTime.IsZero() {
		c.Header("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
	}
	c.Header("Cache-Control", "public, max-age=86400")
	body := utils.NewThrottledReader(c.Request.Context(), obj.Body, h.streamLimit)
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, body, nil)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "无效的媒体文件 ID")
		return 0, false
	}
	return id, true
}

// failWithError 把业务错误映射为 HTTP 状态码
func failWithError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "媒体文件不存在")
	case errors.Is(err, constant.ErrStorageNotFound), errors.Is(err, constant.ErrChecksumMissing):
		response.Fail(c, http.StatusNotFound, err.Error())
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg(message)
		response.Fail(c, http.StatusInternalServerError, message)
	}
}
