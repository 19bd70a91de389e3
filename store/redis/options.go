package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/rsalab/log"
)

// Option 客户端选项
type Option func(*clientOptions)

type clientOptions struct {
	hooks           []redis.Hook
	logger          *log.Logger
	debug           bool
	slowQueryThresh time.Duration
}

// WithHooks 添加自定义 Hooks
func WithHooks(hooks ...redis.Hook) Option {
	return func(o *clientOptions) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// WithDebug 记录每条命令, 超过阈值的命令以 warn 级别记录. 阈值为 0 时不检测慢查询
func WithDebug(slowQueryThreshold time.Duration) Option {
	return func(o *clientOptions) {
		o.debug = true
		o.slowQueryThresh = slowQueryThreshold
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
