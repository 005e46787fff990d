// Package mediacontent 定位并交付媒体文件的原始内容与缩略图
package mediacontent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mousephenotype/phenodcc-media/internal/infra/storage"
	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/repository"
)

const thumbnailFile = "thumbnail.jpg"

var checksumChunk = regexp.MustCompile(`(.{4})`)

// Content 二选一：RedirectURL 非空时重定向，否则直接输出 Object
type Content struct {
	RedirectURL string
	Object      *storage.Object
}

// Service 媒体内容服务
type Service struct {
	repo       repository.MediaFileRepository
	providers  *storage.Providers
	presignTTL time.Duration
}

// NewService 创建媒体内容服务
func NewService(repo repository.MediaFileRepository, providers *storage.Providers, presignTTL time.Duration) *Service {
	return &Service{repo: repo, providers: providers, presignTTL: presignTTL}
}

// OriginalKey 原始文件的相对路径 {cid}/{lid}/{gid}/{sid}/{pid}/{qid}/{id}.{ext}
func OriginalKey(mf *model.MediaFile) (string, error) {
	if !mf.HasExtension() {
		return "", fmt.Errorf("媒体文件 %d 没有扩展名: %w", mf.ID, constant.ErrStorageNotFound)
	}
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d/%d.%s",
		mf.CentreID, mf.PipelineID, mf.GenotypeID, mf.StrainID,
		mf.ProcedureID, mf.ParameterID, mf.ID, *mf.Extension), nil
}

// TilePath 把校验和每 4 个字符切分为一级目录，如 abcd1234 -> abcd/1234/
func TilePath(checksum string) string {
	return checksumChunk.ReplaceAllString(checksum, "$1/")
}

// ThumbnailKey 缩略图的相对路径
func ThumbnailKey(mf *model.MediaFile) (string, error) {
	if mf.Checksum == nil || *mf.Checksum == "" {
		return "", fmt.Errorf("媒体文件 %d: %w", mf.ID, constant.ErrChecksumMissing)
	}
	return TilePath(*mf.Checksum) + thumbnailFile, nil
}

// Original 返回媒体文件原始内容
func (s *Service) Original(ctx context.Context, id int64) (*Content, error) {
	mf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := OriginalKey(mf)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, s.providers.Originals, key)
}

// Thumbnail 返回媒体文件的缩略图
func (s *Service) Thumbnail(ctx context.Context, id int64) (*Content, error) {
	mf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := ThumbnailKey(mf)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, s.providers.Tiles, key)
}

// deliver 优先返回预签名链接，存储不支持时直接读取
func (s *Service) deliver(ctx context.Context, p storage.IStorageProvider, key string) (*Content, error) {
	u, err := p.GetDownloadURL(ctx, key, s.presignTTL)
	switch {
	case err == nil:
		exists, err := p.IsExist(ctx, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%s: %w", key, constant.ErrStorageNotFound)
		}
		return &Content{RedirectURL: u}, nil
	case errors.Is(err, constant.ErrFeatureNotSupported):
		obj, err := p.Open(ctx, key)
		if err != nil {
			return nil, err
		}
		return &Content{Object: obj}, nil
	default:
		logging.Ctx(ctx).Error().Err(err).Str("key", key).Msg("生成下载链接失败")
		return nil, err
	}
}
