package log

import (
	"github.com/rs/zerolog"
)

// G 全局日志实例, 进程启动时由 SetGlobalLogger 替换
var G = New()

// SetGlobalLogger 设置全局日志记录器
func SetGlobalLogger(logger *Logger) {
	G = logger
}

// SetGlobalLevel 设置进程级最低日志级别, 对所有 Logger 生效, 可在运行时调用
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// SetLevel 解析级别字符串后调用 SetGlobalLevel, 配置热加载时使用
func SetLevel(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return ErrInvalidLevel.WithCause(err).WithMetadata(map[string]string{"level": level})
	}
	SetGlobalLevel(parsed)
	return nil
}

func Debug() *zerolog.Event {
	return G.Debug()
}

func Info() *zerolog.Event {
	return G.Info()
}

func Warn() *zerolog.Event {
	return G.Warn()
}

// Error 返回 error 级别的日志事件（带堆栈）
func Error() *zerolog.Event {
	return G.Error().Stack()
}

func Warnf(format string, args ...any) {
	G.Warn().Msgf(format, args...)
}
