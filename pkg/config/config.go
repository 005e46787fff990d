// Package config 统一配置管理：data/conf.ini 作为默认值，环境变量 PHENODCC_* 覆盖。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"

	"github.com/mousephenotype/phenodcc-media/internal/pkg/logging"
)

// DefaultFilePath 默认配置文件位置
const DefaultFilePath = "data/conf.ini"

const envPrefix = "PHENODCC"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyLogLevel, KeyLogFormat,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyCatalogMedia, KeyCatalogOverviews, KeyCatalogImpress, KeyCatalogEmbryo,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyCacheMetadataGroupTTL, KeyTaskCacheEvictSpec, KeyTaskPoolStatsSpec,
	KeyRateLimitPerMinute, KeyRateLimitBurst,
	KeyStorageType, KeyStorageOriginalsDir, KeyStorageTilesDir,
	KeyStorageBucket, KeyStorageRegion, KeyStorageEndpoint, KeyStorageAccessKey, KeyStorageSecretKey,
	KeyStorageOriginalsPrefix, KeyStorageTilesPrefix, KeyStoragePresignSeconds, KeyStorageStreamBytesPerSecond,
	KeyMetricsEnabled,
}

const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"

	KeyLogLevel  = "Log.Level"
	KeyLogFormat = "Log.Format"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"
	KeyDBDebug    = "Database.Debug"

	// 各个表所在的库（MySQL 下为 schema 前缀，SQLite 忽略）
	KeyCatalogMedia     = "Catalog.Media"
	KeyCatalogOverviews = "Catalog.Overviews"
	KeyCatalogImpress   = "Catalog.Impress"
	KeyCatalogEmbryo    = "Catalog.Embryo"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyCacheMetadataGroupTTL = "Cache.MetadataGroupTTL"
	KeyTaskCacheEvictSpec    = "Task.CacheEvictSpec"
	KeyTaskPoolStatsSpec     = "Task.PoolStatsSpec"

	KeyRateLimitPerMinute = "RateLimit.PerMinute"
	KeyRateLimitBurst     = "RateLimit.Burst"

	KeyStorageType            = "Storage.Type"
	KeyStorageOriginalsDir    = "Storage.OriginalsDir"
	KeyStorageTilesDir        = "Storage.TilesDir"
	KeyStorageBucket          = "Storage.Bucket"
	KeyStorageRegion          = "Storage.Region"
	KeyStorageEndpoint        = "Storage.Endpoint"
	KeyStorageAccessKey       = "Storage.AccessKey"
	KeyStorageSecretKey       = "Storage.SecretKey"
	KeyStorageOriginalsPrefix = "Storage.OriginalsPrefix"
	KeyStorageTilesPrefix     = "Storage.TilesPrefix"
	KeyStoragePresignSeconds  = "Storage.PresignSeconds"
	// 本地存储输出媒体内容的限速，单位字节/秒，0 表示不限速
	KeyStorageStreamBytesPerSecond = "Storage.StreamBytesPerSecond"

	KeyMetricsEnabled = "Metrics.Enabled"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultFilePath)
}

// NewConfigFromFile 手动加载配置：先读 ini 文件，再用环境变量覆盖
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()

	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Info().Str("path", filePath).Msg("未找到配置文件，将创建默认配置文件")
			if err := createDefaultConfigFile(filePath); err != nil {
				logging.Warn().Err(err).Msg("创建默认配置文件失败，将仅依赖环境变量或内部默认值")
			} else {
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					logging.Warn().Err(err).Msg("重新加载配置文件失败")
				}
			}
		} else {
			return nil, fmt.Errorf("解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		logging.Debug().Str("path", filePath).Msg("已从配置文件加载默认配置")
	}

	applyEnvOverrides(vp)
	return &Config{vp: vp}, nil
}

// FromValues 直接由键值构造配置，主要用于测试
func FromValues(values map[string]interface{}) *Config {
	vp := viper.New()
	for k, v := range values {
		vp.Set(k, v)
	}
	return &Config{vp: vp}
}

// applyEnvOverrides 逐个检查 PHENODCC_SECTION_KEY 形式的环境变量
func applyEnvOverrides(vp *viper.Viper) {
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			logging.Info().Str("env", envVarName).Str("key", key).Msg("环境变量覆盖配置")
		}
	}
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetStringDefault 在键缺失或为空时返回 def
func (c *Config) GetStringDefault(key, def string) string {
	if v := c.vp.GetString(key); v != "" {
		return v
	}
	return def
}

// GetIntDefault 在键缺失时返回 def
func (c *Config) GetIntDefault(key string, def int) int {
	if !c.vp.IsSet(key) || c.vp.GetString(key) == "" {
		return def
	}
	return c.vp.GetInt(key)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Port = 8091
Debug = false

[Log]
Level = info
Format = json

[Database]
Type = sqlite
Name = phenodcc_media.db
Debug = false

# MySQL 部署时各表分布在不同的库中，SQLite 下留空即可
[Catalog]
Media =
Overviews =
Impress =
Embryo =

# 不配置 Addr 时使用内存缓存
[Redis]
Addr =
Password =
DB = 0

# MetadataGroupTTL 单位为秒，0 表示不缓存
[Cache]
MetadataGroupTTL = 0

[Task]
CacheEvictSpec = 0 */10 * * * *
PoolStatsSpec = */30 * * * * *

[RateLimit]
PerMinute = 600
Burst = 100

# Type 可选 local / s3
[Storage]
Type = local
OriginalsDir = ./data/media/src
TilesDir = ./data/media/tiles
PresignSeconds = 3600
StreamBytesPerSecond = 0

[Metrics]
Enabled = true
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
