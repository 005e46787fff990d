// Package storage 提供原始媒体文件与图像切片的读取，支持本地目录和 S3 兼容对象存储
package storage

import (
	"context"
	"io"
	"time"
)

// Object 是一次读取得到的对象内容，调用方负责关闭 Body
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// IStorageProvider 定义了所有存储提供者必须实现的接口。
// key 是相对于存储根（本地目录或对象前缀）的路径，使用 '/' 分隔。
type IStorageProvider interface {
	// Open 打开一个对象；不存在时返回 constant.ErrStorageNotFound
	Open(ctx context.Context, key string) (*Object, error)
	// IsExist 检查对象是否存在
	IsExist(ctx context.Context, key string) (bool, error)
	// GetDownloadURL 生成一个临时的下载链接；本地存储返回 constant.ErrFeatureNotSupported
	GetDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}
