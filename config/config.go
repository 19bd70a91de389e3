package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/rsalab/core/validator"
	"github.com/kochabx/rsalab/log"
)

// Config 配置管理
type Config struct {
	mu        sync.RWMutex
	viper     *viper.Viper
	validate  validator.Validator
	target    any
	loader    Loader
	name      string
	paths     []string
	envPrefix string
	onChange  []func(target any)
}

// New 创建配置实例, 默认从当前目录加载 config.yaml
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
		name:     "config.yaml",
		paths:    []string{"."},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(c.name, c.paths, c.viper, c.validate, c.envPrefix)
	}
	return c
}

// Load 加载配置
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// Watch 监听配置文件, 变化后重新加载
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")
		if err := c.Load(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}
		log.Info().Msg("config reloaded successfully")
		c.Read(func(target any) {
			for _, fn := range c.onChange {
				fn(target)
			}
		})
	})
}

// Read 在读锁下访问配置, 与热加载互斥
func (c *Config) Read(fn func(target any)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.target)
}

// Viper 返回底层 viper 实例
func (c *Config) Viper() *viper.Viper {
	return c.viper
}
