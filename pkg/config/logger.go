package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger 按日志配置创建 slog 日志器
//
// 级别无法识别时使用 info，格式不是 json 时使用 text。
func NewLogger(s LogSettings, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(s.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
