package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// 不同驱动返回时间列的格式不一致（MySQL parseTime 返回 time.Time，SQLite 返回文本）
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NullTime 用于处理可为空的时间列。
// 它实现了 sql.Scanner、driver.Valuer 和 json.Marshaler。
type NullTime struct {
	Time  time.Time
	Valid bool
}

// NewNullTime 构造一个有效的 NullTime
func NewNullTime(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// Scan 实现了 sql.Scanner 接口
func (nt *NullTime) Scan(value interface{}) error {
	if value == nil {
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		nt.Time, nt.Valid = v, true
		return nil
	case string:
		return nt.parse(v)
	case []byte:
		return nt.parse(string(v))
	default:
		return fmt.Errorf("不支持的 Scan 类型，无法转换为 NullTime: %T", value)
	}
}

func (nt *NullTime) parse(s string) error {
	if s == "" {
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			nt.Time, nt.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("无法解析时间: %q", s)
}

// Value 实现了 driver.Valuer 接口
func (nt NullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return nil, nil
	}
	return nt.Time, nil
}

// MarshalJSON 无效时输出 null
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if !nt.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nt.Time)
}

// UnmarshalJSON 接受 null 或 RFC3339 字符串
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		nt.Time, nt.Valid = time.Time{}, false
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	nt.Time, nt.Valid = t, true
	return nil
}

// MarshalText 供 XML 编码使用，无效时为空
func (nt NullTime) MarshalText() ([]byte, error) {
	if !nt.Valid {
		return []byte{}, nil
	}
	return nt.Time.MarshalText()
}
