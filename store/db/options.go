package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/kochabx/rsalab/log"
)

// Option 客户端配置选项
type Option func(*clientOptions)

type clientOptions struct {
	logger          *log.Logger
	connectTimeout  time.Duration
	slowQueryThresh time.Duration
	gormConfig      *gorm.Config
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		connectTimeout: 10 * time.Second,
	}
}

// WithLogger 设置日志记录器, 默认使用全局 log.G
func WithLogger(l *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithConnectTimeout 设置连接超时时间
func WithConnectTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// WithSlowQuery 启用慢查询日志, 0 表示禁用
func WithSlowQuery(threshold time.Duration) Option {
	return func(o *clientOptions) {
		o.slowQueryThresh = threshold
	}
}

// WithGormConfig 设置自定义 GORM 配置
func WithGormConfig(cfg *gorm.Config) Option {
	return func(o *clientOptions) {
		o.gormConfig = cfg
	}
}
