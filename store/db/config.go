package db

import (
	"strings"
	"time"

	"github.com/kochabx/rsalab/core/tag"
)

// Driver 数据库驱动类型
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// LogLevel 与 gorm logger.LogLevel 取值一致, Silent 从 1 开始
type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// ParseLogLevel 解析日志级别字符串, 未知值按 silent 处理
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	default:
		return LogLevelSilent
	}
}

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int           `mapstructure:"max_idle_conns" default:"10"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" default:"100"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" default:"1h"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" default:"10m"`
}

// DriverConfig 驱动配置接口
type DriverConfig interface {
	Driver() Driver
	// DSN 返回数据源名称
	DSN() string
	Pool() *PoolConfig
	// Init 应用默认值
	Init() error
	LogLevel() LogLevel
}

// Config 按 Driver 选择具体的驱动配置
type Config struct {
	Driver   string         `mapstructure:"driver" default:"sqlite" validate:"oneof=sqlite postgres mysql"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
}

// DriverConfig 返回当前驱动的配置
func (c *Config) DriverConfig() (DriverConfig, error) {
	if err := tag.ApplyDefaults(c); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	switch Driver(c.Driver) {
	case DriverSQLite:
		return &c.SQLite, nil
	case DriverPostgres:
		return &c.Postgres, nil
	case DriverMySQL:
		return &c.MySQL, nil
	default:
		return nil, ErrUnsupportedDriver.WithMetadata(map[string]string{"driver": c.Driver})
	}
}
