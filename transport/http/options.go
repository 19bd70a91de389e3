package http

import (
	"time"

	"github.com/kochabx/rsalab/core/tag"
)

// Options 服务器附加功能配置
type Options struct {
	Swag    SwagOption    `mapstructure:"swagger"`
	Metrics MetricsOption `mapstructure:"metrics"`
	Health  HealthOption  `mapstructure:"health"`
	Timeout TimeoutOption `mapstructure:"timeout"`
}

type SwagOption struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" default:"/swagger/*any"`
}

type MetricsOption struct {
	Enabled bool   `mapstructure:"enabled" default:"true"`
	Path    string `mapstructure:"path" default:"/metrics"`
}

type HealthOption struct {
	Enabled bool   `mapstructure:"enabled" default:"true"`
	Path    string `mapstructure:"path" default:"/healthz"`
}

type TimeoutOption struct {
	ReadHeader time.Duration `mapstructure:"read_header" default:"10s"`
	// Write 需要覆盖最长的素数生成时间
	Write time.Duration `mapstructure:"write" default:"330s"`
	Idle  time.Duration `mapstructure:"idle" default:"120s"`
}

func (o *Options) init() error {
	return tag.ApplyDefaults(o)
}
