package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/rsalab/log"
)

// LoggerConfig 日志中间件配置
type LoggerConfig struct {
	// Logger 为空时使用全局 log.G
	Logger *log.Logger
	// HandlerEnabled 是否记录处理器名称
	HandlerEnabled bool
	// SkipPaths 跳过记录的路径前缀
	SkipPaths []string
}

// DefaultLoggerConfig 默认日志配置
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics", "/api/v1/health/live"},
	}
}

// GinLogger 创建默认的 Gin 日志中间件
func GinLogger() gin.HandlerFunc {
	return GinLoggerWithConfig(DefaultLoggerConfig())
}

// GinLoggerWithConfig 根据配置创建 Gin 日志中间件. 请求体不记录, 其中可能包含私钥
func GinLoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skippedPathPrefixes(c, config.SkipPaths...) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger := config.Logger
		if logger == nil {
			logger = log.G
		}

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event = event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("uri", c.Request.RequestURI).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if config.HandlerEnabled {
			event = event.Str("handler", c.HandlerName())
		}
		if id := GetRequestID(c); id != "" {
			event = event.Str("request_id", id)
		}
		// 记录错误信息
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.Send()
	}
}
