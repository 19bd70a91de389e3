package db

import (
	"strconv"
	"strings"

	"github.com/kochabx/rsalab/core/tag"
)

// SQLiteConfig SQLite 数据库配置
type SQLiteConfig struct {
	FilePath    string `mapstructure:"file_path" default:"./rsalab.db"`
	JournalMode string `mapstructure:"journal_mode" default:"WAL"`
	BusyTimeout int    `mapstructure:"busy_timeout" default:"5000"`
	SyncMode    string `mapstructure:"sync_mode" default:"NORMAL"`
	Level       string `mapstructure:"level" default:"silent"`

	// SQLite 单文件, 使用单连接
	PoolConfig `mapstructure:"pool"`
}

func (c *SQLiteConfig) Driver() Driver {
	return DriverSQLite
}

func (c *SQLiteConfig) Init() error {
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	c.MaxIdleConns = 1
	c.MaxOpenConns = 1
	return nil
}

// DSN 生成 SQLite DSN 连接字符串
func (c *SQLiteConfig) DSN() string {
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(c.FilePath)
	b.WriteString("?_journal_mode=")
	b.WriteString(c.JournalMode)
	b.WriteString("&_busy_timeout=")
	b.WriteString(strconv.Itoa(c.BusyTimeout))
	b.WriteString("&_synchronous=")
	b.WriteString(c.SyncMode)
	return b.String()
}

func (c *SQLiteConfig) Pool() *PoolConfig {
	return &c.PoolConfig
}

func (c *SQLiteConfig) LogLevel() LogLevel {
	return ParseLogLevel(c.Level)
}
