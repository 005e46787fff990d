package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	lookup_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/lookup"
	mediafile_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/mediafile"
	version_handler "github.com/mousephenotype/phenodcc-media/pkg/handler/version"
)

func newEngine(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewRouter(
		mediafile_handler.NewHandler(nil, nil),
		lookup_handler.NewHandler(nil),
		version_handler.NewHandler(nil),
		opts,
	).Setup(engine)
	return engine
}

func TestSetupRoutes(t *testing.T) {
	engine := newEngine(Options{})

	want := []string{
		"GET /api/version",
		"GET /api/ping",
		"GET /api/mediafiles",
		"GET /api/mediafiles/:cid/:gid/:sid/:qeid",
		"GET /api/media-files",
		"GET /api/media-files/count",
		"GET /api/media-files/:id",
		"GET /api/media-files/:id/content",
		"GET /api/media-files/:id/thumbnail",
		"GET /api/phases",
		"GET /api/statuses",
		"GET /api/file-extensions",
		"GET /api/associations",
	}
	registered := make(map[string]bool)
	for _, ri := range engine.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("缺少路由 %s", route)
		}
	}
	if registered["GET /metrics"] {
		t.Error("未启用指标时不应注册 /metrics")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newEngine(Options{MetricsEnabled: true})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/api/version 状态码 = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应缺少 X-Request-ID")
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics 状态码 = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "phenodcc_media_http_requests_total") {
		t.Error("/metrics 输出中缺少 HTTP 请求指标")
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	engine := newEngine(Options{RateLimitPerMinute: 1, RateLimitBurst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("状态码序列 = %v", codes)
	}
}
