package version

import (
	"strings"
	"testing"
)

func TestInjectedValues(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	Version, Commit, Date = "v1.4.0", "abc1234", "2026-01-02 03:04:05"

	info := GetBuildInfo()
	if info.Version != "v1.4.0" || info.Commit != "abc1234" || info.Date != "2026-01-02 03:04:05" {
		t.Errorf("BuildInfo = %+v", info)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion 不应为空")
	}

	want := "v1.4.0, commit abc1234, built at 2026-01-02 03:04:05"
	if got := GetVersionString(); got != want {
		t.Errorf("GetVersionString() = %q, want %q", got, want)
	}
}

func TestDefaultVersion(t *testing.T) {
	if got := GetVersionString(); !strings.HasPrefix(got, GetVersion()) {
		t.Errorf("版本字符串 %q 应以版本号开头", got)
	}
}
