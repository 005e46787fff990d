package version

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestGetVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/version", NewHandler(nil).GetVersion)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"go_version"`) {
		t.Errorf("响应缺少构建信息: %s", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestPing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		db       Pinger
		wantCode int
	}{
		{"未配置数据库", nil, http.StatusOK},
		{"数据库正常", fakePinger{}, http.StatusOK},
		{"数据库不可用", fakePinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/ping", NewHandler(tt.db).Ping)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
			if w.Code != tt.wantCode {
				t.Errorf("状态码 = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
