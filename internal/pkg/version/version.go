// Package version 提供构建版本信息，优先使用 ldflags 注入的值，其次读取 Go 构建信息
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// 这些变量将在构建时通过 ldflags 注入
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo 包含构建信息
type BuildInfo struct {
	Version   string `json:"version" xml:"version"`
	Commit    string `json:"commit" xml:"commit"`
	Date      string `json:"date" xml:"date"`
	GoVersion string `json:"go_version" xml:"goVersion"`
}

// GetBuildInfo 返回详细的构建信息
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: GoVersion,
	}
}

// GetVersion 返回应用版本号
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit 返回短 commit hash
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	rev := vcsSetting("vcs.revision")
	if len(rev) > 7 {
		return rev[:7]
	}
	if rev == "" {
		return "unknown"
	}
	return rev
}

// GetBuildDate 返回构建时间
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	v := vcsSetting("vcs.time")
	if v == "" {
		return "unknown"
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return v
}

// GetVersionString 返回完整的版本字符串，如 "v1.2.0, commit abc1234, built at ..."
func GetVersionString() string {
	parts := []string{GetVersion()}
	if commit := GetCommit(); commit != "unknown" {
		parts = append(parts, fmt.Sprintf("commit %s", commit))
	}
	if date := GetBuildDate(); date != "unknown" {
		parts = append(parts, fmt.Sprintf("built at %s", date))
	}
	return strings.Join(parts, ", ")
}

func vcsSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
