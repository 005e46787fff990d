package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mousephenotype/phenodcc-media/pkg/constant"
)

// LocalProvider 从本地目录读取媒体文件
type LocalProvider struct {
	root string
}

// NewLocalProvider 创建以 root 为根目录的本地存储
func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{root: root}
}

// resolve 将 key 映射为 root 下的物理路径，拒绝跳出 root 的路径
func (p *LocalProvider) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("非法的对象路径: %q", key)
	}
	return filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (p *LocalProvider) Open(_ context.Context, key string) (*Object, error) {
	fullPath, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("物理文件不存在 %s: %w", fullPath, constant.ErrStorageNotFound)
		}
		return nil, fmt.Errorf("无法打开物理文件 '%s': %w", fullPath, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("读取文件信息失败 '%s': %w", fullPath, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s 是目录: %w", fullPath, constant.ErrStorageNotFound)
	}
	return &Object{
		Body:        file,
		Size:        info.Size(),
		ContentType: contentTypeByKey(key),
		ModTime:     info.ModTime(),
	}, nil
}

func (p *LocalProvider) IsExist(_ context.Context, key string) (bool, error) {
	fullPath, err := p.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (p *LocalProvider) GetDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", constant.ErrFeatureNotSupported
}

// contentTypeByKey 按扩展名推断类型，未知时为 application/octet-stream
func contentTypeByKey(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
