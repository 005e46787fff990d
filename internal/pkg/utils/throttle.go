package utils

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// ThrottledReader 按字节限速读取，1 个令牌对应 1 字节
type ThrottledReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

// NewThrottledReader 返回限速后的 reader；bytesPerSecond 不大于 0 时原样返回 r
func NewThrottledReader(ctx context.Context, r io.Reader, bytesPerSecond int64) io.Reader {
	if bytesPerSecond <= 0 {
		return r
	}
	return &ThrottledReader{
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), int(bytesPerSecond)),
		ctx:     ctx,
	}
}

// Read 单次读取不超过桶容量，读到数据后再等待相应的令牌
func (t *ThrottledReader) Read(p []byte) (int, error) {
	if burst := t.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
