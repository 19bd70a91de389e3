package db

import (
	"strconv"
	"strings"
	"time"

	"github.com/kochabx/rsalab/core/tag"
)

// MySQLConfig MySQL 数据库配置
type MySQLConfig struct {
	Host      string        `mapstructure:"host" default:"localhost"`
	Port      int           `mapstructure:"port" default:"3306"`
	User      string        `mapstructure:"user" default:"root"`
	Password  string        `mapstructure:"password"`
	Database  string        `mapstructure:"database" default:"rsalab"`
	Charset   string        `mapstructure:"charset" default:"utf8mb4"`
	ParseTime bool          `mapstructure:"parse_time" default:"true"`
	Loc       string        `mapstructure:"loc" default:"UTC"`
	Timeout   time.Duration `mapstructure:"timeout" default:"10s"`
	Level     string        `mapstructure:"level" default:"silent"`

	PoolConfig `mapstructure:"pool"`
}

func (c *MySQLConfig) Driver() Driver {
	return DriverMySQL
}

func (c *MySQLConfig) Init() error {
	return tag.ApplyDefaults(c)
}

// DSN 生成 user:password@tcp(host:port)/database?params 形式的连接字符串
func (c *MySQLConfig) DSN() string {
	var b strings.Builder
	b.WriteString(c.User)
	b.WriteByte(':')
	b.WriteString(c.Password)
	b.WriteString("@tcp(")
	b.WriteString(c.Host)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(c.Port))
	b.WriteString(")/")
	b.WriteString(c.Database)
	b.WriteString("?charset=")
	b.WriteString(c.Charset)
	b.WriteString("&parseTime=")
	b.WriteString(strconv.FormatBool(c.ParseTime))
	b.WriteString("&loc=")
	b.WriteString(c.Loc)
	b.WriteString("&timeout=")
	b.WriteString(c.Timeout.String())
	return b.String()
}

func (c *MySQLConfig) Pool() *PoolConfig {
	return &c.PoolConfig
}

func (c *MySQLConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}
