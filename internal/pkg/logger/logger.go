// Package logger 构造全局统一格式的 slog.Logger。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewDefault 创建输出到 stdout 的 JSON 日志器。
//
// 参数:
//
//	level: debug|info|warn|error，大小写不敏感，无法识别时按 info 处理
//
// 返回值:
//
//	*slog.Logger: 日志器
func NewDefault(level string) *slog.Logger {
	return New(os.Stdout, level)
}

// New 创建写到 w 的 JSON 日志器，测试中可传入 bytes.Buffer。
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// ParseLevel 把字符串解析为 slog.Level。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard 丢弃全部输出，供测试和未注入 logger 的组件使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
