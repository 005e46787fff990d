package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Msg("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("日志中缺少 request_id: %s", buf.String())
	}
}

func TestRequestIDFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"空 context", context.Background(), ""},
		{"已设置", ContextWithRequestID(context.Background(), "abc"), "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequestIDFromContext(tt.ctx); got != tt.want {
				t.Errorf("RequestIDFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("生成的请求 ID 不唯一: %q %q", a, b)
	}
}
