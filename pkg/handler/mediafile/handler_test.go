package mediafile

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mousephenotype/phenodcc-media/internal/infra/storage"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/service/mediacontent"
	mediafile_service "github.com/mousephenotype/phenodcc-media/pkg/service/mediafile"
)

type stubDetailRepo struct{ lastQuery model.DetailQuery }

func (s *stubDetailRepo) FindMutant(_ context.Context, q model.DetailQuery) ([]*model.MediaFileDetail, error) {
	s.lastQuery = q
	id := int64(1)
	return []*model.MediaFileDetail{{ID: &id, AnimalName: "m-1", MetadataGroup: "A", GenotypeID: q.GenotypeID}}, nil
}

func (s *stubDetailRepo) FindBaseline(_ context.Context, _ model.DetailQuery, mg string) ([]*model.MediaFileDetail, error) {
	return []*model.MediaFileDetail{{AnimalName: "wt-1", MetadataGroup: mg}}, nil
}

type stubProcedureMGRepo struct{}

func (stubProcedureMGRepo) FindByContext(_ context.Context, cid, _, _ int64, _ string) ([]*model.ProcedureMetadataGroup, error) {
	if cid == 404 {
		return nil, nil
	}
	return []*model.ProcedureMetadataGroup{{ProcedureKey: "IMPC_XRY_001", MetadataGroup: "A"}}, nil
}

type stubMGRepo struct{}

func (stubMGRepo) FindByMetadataGroup(_ context.Context, mg string) (*model.MetadataGroupToValues, error) {
	if mg == "A" {
		return &model.MetadataGroupToValues{ID: 7, MetadataGroup: "A", Values: "Equipment = X"}, nil
	}
	return nil, constant.ErrNotFound
}

type stubPreprocessedRepo struct{}

func (stubPreprocessedRepo) FindStatusByImageName(context.Context, string) (int, error) {
	return 0, constant.ErrNotFound
}

type stubMediaFileRepo struct{}

func (stubMediaFileRepo) FindByID(_ context.Context, id int64) (*model.MediaFile, error) {
	if id != 1 {
		return nil, constant.ErrNotFound
	}
	ext, checksum := "txt", "abcd1234"
	return &model.MediaFile{ID: 1, CentreID: 1, PipelineID: 2, GenotypeID: 3, StrainID: 4, ProcedureID: 5,
		ParameterID: 6, Extension: &ext, Checksum: &checksum}, nil
}

func (stubMediaFileRepo) List(_ context.Context, page *model.PaginationInput) ([]*model.MediaFile, int, error) {
	return []*model.MediaFile{{ID: 1}}, 1, nil
}
func (stubMediaFileRepo) Count(context.Context) (int, error) { return 1, nil }
func (stubMediaFileRepo) Create(context.Context, *model.CreateMediaFileParams) (*model.MediaFile, error) {
	return nil, constant.ErrFeatureNotSupported
}
func (stubMediaFileRepo) Update(context.Context, int64, *model.UpdateMediaFileParams) (*model.MediaFile, error) {
	return nil, constant.ErrFeatureNotSupported
}
func (stubMediaFileRepo) Delete(context.Context, int64) error { return constant.ErrFeatureNotSupported }

func setupRouter(t *testing.T) (*gin.Engine, *stubDetailRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	originals := filepath.Join(root, "src")
	if err := os.MkdirAll(filepath.Join(originals, "1/2/3/4/5/6"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(originals, "1/2/3/4/5/6/1.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	detailRepo := &stubDetailRepo{}
	svc := mediafile_service.NewService(detailRepo, stubProcedureMGRepo{}, stubMGRepo{}, stubPreprocessedRepo{}, stubMediaFileRepo{}, nil)
	contentSvc := mediacontent.NewService(stubMediaFileRepo{}, &storage.Providers{
		Originals: storage.NewLocalProvider(originals),
		Tiles:     storage.NewLocalProvider(filepath.Join(root, "tiles")),
	}, time.Minute)
	h := NewHandler(svc, contentSvc)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/mediafiles", h.Query)
	api.GET("/mediafiles/:cid/:gid/:sid/:qeid", h.QueryByPath)
	api.GET("/media-files", h.List)
	api.GET("/media-files/count", h.Count)
	api.GET("/media-files/:id", h.Get)
	api.GET("/media-files/:id/content", h.Content)
	api.GET("/media-files/:id/thumbnail", h.Thumbnail)
	return r, detailRepo
}

func do(r http.Handler, target, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type packJSON struct {
	Success        bool `json:"success"`
	Total          int  `json:"total"`
	MetadataGroups []struct {
		I int64  `json:"i"`
		M string `json:"m"`
		V string `json:"v"`
	} `json:"metadataGroups"`
	Details []map[string]any `json:"details"`
}

func TestQuery(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name        string
		target      string
		wantCode    int
		wantSuccess bool
		wantTotal   int
	}{
		{"完整参数", "/api/mediafiles?cid=1&gid=7&sid=5&qeid=IMPC_XRY_051_001", 200, true, 1},
		{"合并基线", "/api/mediafiles?cid=1&gid=7&sid=5&qeid=IMPC_XRY_051_001&includeBaseline=true", 200, true, 2},
		{"路径参数", "/api/mediafiles/1/7/5/IMPC_XRY_051_001?includeBaseline=true", 200, true, 2},
		{"缺少参数返回空信封", "/api/mediafiles?cid=1&gid=7", 200, false, 0},
		{"上下文为空", "/api/mediafiles?cid=404&gid=7&sid=5&qeid=IMPC_XRY_051_001", 200, false, 0},
		{"数字格式错误", "/api/mediafiles?cid=abc&gid=7&sid=5&qeid=IMPC_XRY_051_001", 400, false, 0},
		{"路径数字格式错误", "/api/mediafiles/x/7/5/IMPC_XRY_051_001", 400, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.target, "")
			if w.Code != tt.wantCode {
				t.Fatalf("状态码 = %d, want %d, body=%s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var pack packJSON
			if err := json.Unmarshal(w.Body.Bytes(), &pack); err != nil {
				t.Fatalf("解析响应失败: %v", err)
			}
			if pack.Success != tt.wantSuccess || pack.Total != tt.wantTotal || len(pack.Details) != tt.wantTotal {
				t.Errorf("信封 = success %v total %d details %d", pack.Success, pack.Total, len(pack.Details))
			}
			if pack.MetadataGroups == nil || pack.Details == nil {
				t.Errorf("数组字段不应为 null: %s", w.Body.String())
			}
		})
	}
}

func TestQueryWireFormat(t *testing.T) {
	r, detailRepo := setupRouter(t)
	w := do(r, "/api/mediafiles?cid=1&lid=11&gid=7&sid=5&pid=21&qeid=IMPC_XRY_051_001", "application/json")

	if !detailRepo.lastQuery.Strict || detailRepo.lastQuery.PipelineID != 11 || detailRepo.lastQuery.ProcedureID != 21 {
		t.Errorf("同时提供 lid 和 pid 时应使用严格查询: %+v", detailRepo.lastQuery)
	}

	var pack packJSON
	if err := json.Unmarshal(w.Body.Bytes(), &pack); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(pack.MetadataGroups) != 1 || pack.MetadataGroups[0].I != 7 || pack.MetadataGroups[0].V != "Equipment = X" {
		t.Errorf("元数据组 = %+v", pack.MetadataGroups)
	}
	d := pack.Details[0]
	if d["m"] != float64(7) || d["an"] != "m-1" {
		t.Errorf("明细 = %v", d)
	}
	if _, ok := d["metadata_group"]; ok {
		t.Errorf("明细中不应输出校验和: %v", d)
	}
}

func TestQueryXML(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(r, "/api/mediafiles?cid=1&gid=7&sid=5&qeid=IMPC_XRY_051_001", "application/xml")

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %s", ct)
	}
	var pack struct {
		XMLName xml.Name `xml:"mediaFileDetailsPack"`
		Success bool     `xml:"success"`
		Total   int      `xml:"total"`
	}
	if err := xml.Unmarshal(w.Body.Bytes(), &pack); err != nil {
		t.Fatalf("解析 XML 失败: %v\n%s", err, w.Body.String())
	}
	if !pack.Success || pack.Total != 1 {
		t.Errorf("XML 信封 = %+v", pack)
	}
}

func TestMediaFileEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"获取单个媒体文件", "/api/media-files/1", 200, `"checksum":"abcd1234"`},
		{"媒体文件不存在", "/api/media-files/2", 404, `"code":404`},
		{"非法 ID", "/api/media-files/abc", 400, `"code":400`},
		{"分页列表", "/api/media-files?page=1&pageSize=10", 200, `"total":1`},
		{"分页参数非法", "/api/media-files?pageSize=0&page=-1", 400, `"code":400`},
		{"统计", "/api/media-files/count", 200, `"data":1`},
		{"原始文件", "/api/media-files/1/content", 200, "hello"},
		{"缩略图不存在", "/api/media-files/1/thumbnail", 404, `"code":404`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.target, "")
			if w.Code != tt.wantCode {
				t.Fatalf("状态码 = %d, want %d, body=%s", w.Code, tt.wantCode, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("响应 %s 不包含 %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}
