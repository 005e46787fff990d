package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/mousephenotype/phenodcc-media/pkg/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Providers 原始媒体文件与图像切片分别存放在两个根下
type Providers struct {
	Originals IStorageProvider
	Tiles     IStorageProvider
}

// NewProviders 按 Storage.Type 创建存储
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	switch t := strings.ToLower(cfg.GetStringDefault(config.KeyStorageType, TypeLocal)); t {
	case TypeLocal:
		return &Providers{
			Originals: NewLocalProvider(cfg.GetStringDefault(config.KeyStorageOriginalsDir, "./data/media/src")),
			Tiles:     NewLocalProvider(cfg.GetStringDefault(config.KeyStorageTilesDir, "./data/media/tiles")),
		}, nil
	case TypeS3:
		base := S3Options{
			Bucket:    cfg.GetString(config.KeyStorageBucket),
			Region:    cfg.GetString(config.KeyStorageRegion),
			Endpoint:  cfg.GetString(config.KeyStorageEndpoint),
			AccessKey: cfg.GetString(config.KeyStorageAccessKey),
			SecretKey: cfg.GetString(config.KeyStorageSecretKey),
		}
		originalsOpts, tilesOpts := base, base
		originalsOpts.Prefix = cfg.GetStringDefault(config.KeyStorageOriginalsPrefix, "src")
		tilesOpts.Prefix = cfg.GetStringDefault(config.KeyStorageTilesPrefix, "tiles")

		originals, err := NewAWSS3Provider(ctx, originalsOpts)
		if err != nil {
			return nil, fmt.Errorf("创建原始文件存储失败: %w", err)
		}
		tiles, err := NewAWSS3Provider(ctx, tilesOpts)
		if err != nil {
			return nil, fmt.Errorf("创建切片存储失败: %w", err)
		}
		return &Providers{Originals: originals, Tiles: tiles}, nil
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s (支持: local, s3)", t)
	}
}
