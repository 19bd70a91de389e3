package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/rsalab/core/validator"
)

// Option 配置选项
type Option func(*Config)

// WithViper 使用自定义 viper 实例
func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

// WithValidator 使用自定义校验器
func WithValidator(v validator.Validator) Option {
	return func(c *Config) {
		c.validate = v
	}
}

// WithLoader 使用自定义加载器
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.loader = loader
	}
}

// WithFile 设置配置文件名与搜索路径
func WithFile(name string, paths ...string) Option {
	return func(c *Config) {
		c.name = name
		if len(paths) > 0 {
			c.paths = paths
		}
	}
}

// WithEnvPrefix 设置环境变量前缀, 例如 RSALAB_SERVER_ADDR
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOnChange 注册热加载成功后的回调, 回调在读锁下执行
func WithOnChange(fn func(target any)) Option {
	return func(c *Config) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}
