package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.ini")
	content := `[System]
Port = 9000

[Database]
Type = mysql
Name = phenodcc_overviews

[Catalog]
Media = phenodcc_media
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}
	t.Setenv("PHENODCC_DATABASE_NAME", "from_env")

	cfg, err := NewConfigFromFile(path)
	if err != nil {
		t.Fatalf("NewConfigFromFile() error = %v", err)
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"文件中的值", KeyServerPort, "9000"},
		{"文件中的库名", KeyCatalogMedia, "phenodcc_media"},
		{"环境变量覆盖", KeyDBName, "from_env"},
		{"未设置", KeyCatalogEmbryo, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.GetString(tt.key); got != tt.want {
				t.Errorf("GetString(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewConfigFromFileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "conf.ini")

	cfg, err := NewConfigFromFile(path)
	if err != nil {
		t.Fatalf("NewConfigFromFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("默认配置文件未创建: %v", err)
	}
	if got := cfg.GetString(KeyDBType); got != "sqlite" {
		t.Errorf("默认数据库类型 = %q, want sqlite", got)
	}
	if got := cfg.GetInt(KeyCacheMetadataGroupTTL); got != 0 {
		t.Errorf("默认元数据组缓存 TTL = %d, want 0", got)
	}
}

func TestDefaults(t *testing.T) {
	cfg := FromValues(map[string]interface{}{KeyServerPort: "", KeyRateLimitBurst: "5"})

	if got := cfg.GetStringDefault(KeyServerPort, "8091"); got != "8091" {
		t.Errorf("GetStringDefault() = %q, want 8091", got)
	}
	if got := cfg.GetIntDefault(KeyRateLimitBurst, 100); got != 5 {
		t.Errorf("GetIntDefault() = %d, want 5", got)
	}
	if got := cfg.GetIntDefault(KeyRateLimitPerMinute, 600); got != 600 {
		t.Errorf("GetIntDefault() 缺省 = %d, want 600", got)
	}
}
