package redis

import (
	"time"

	"github.com/kochabx/rsalab/core/tag"
)

// Config Redis 配置（单机/集群/哨兵）
//
//	单机: addrs=["localhost:6379"]
//	集群: addrs=["node1:6379","node2:6379"]
//	哨兵: addrs=["sentinel1:26379"], master_name="mymaster"
type Config struct {
	Addrs      []string `mapstructure:"addrs" default:"localhost:6379"`
	MasterName string   `mapstructure:"master_name"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db"`
	Protocol   int      `mapstructure:"protocol" default:"3"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" default:"3s"`

	// PoolSize 0 表示 10 * GOMAXPROCS
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxIdleTime  time.Duration `mapstructure:"max_idle_time" default:"5m"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout" default:"4s"`

	// MaxRetries -1 禁用重试, 0 使用默认值 3
	MaxRetries int `mapstructure:"max_retries"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Mode 返回 single / cluster / sentinel
func (c *Config) Mode() string {
	switch {
	case c.MasterName != "":
		return "sentinel"
	case len(c.Addrs) > 1:
		return "cluster"
	default:
		return "single"
	}
}
