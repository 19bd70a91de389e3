// Package db opens gorm connections for the sqlite, postgres and mysql drivers.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/rsalab/log"
)

// Client 数据库客户端
type Client struct {
	config  DriverConfig
	db      *gorm.DB
	sqlDB   *sql.DB
	options *clientOptions
	logger  *log.Logger
}

// New 创建数据库客户端并测试连接
func New(ctx context.Context, cfg DriverConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.Init(); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	c := &Client{
		config:  cfg,
		options: options,
		logger:  options.logger,
	}
	if c.logger == nil {
		c.logger = log.G
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, options.connectTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, ErrUnavailable.WithCause(err)
	}

	c.logger.Debug().Str("driver", cfg.Driver().String()).Msg("database client created")
	return c, nil
}

func (c *Client) connect() error {
	dialector, err := c.dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, c.gormConfig())
	if err != nil {
		return ErrUnavailable.WithCause(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return ErrUnavailable.WithCause(err)
	}

	pool := c.config.Pool()
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	c.db = db
	c.sqlDB = sqlDB
	return nil
}

func (c *Client) dialector() (gorm.Dialector, error) {
	dsn := c.config.DSN()

	switch c.config.Driver() {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func (c *Client) gormConfig() *gorm.Config {
	if c.options.gormConfig != nil {
		return c.options.gormConfig
	}

	lc := logger.Config{
		LogLevel:                  logger.LogLevel(c.config.LogLevel()),
		IgnoreRecordNotFoundError: true,
		SlowThreshold:             c.options.slowQueryThresh,
	}
	// 时间统一存 UTC, 驱动错误翻译为 gorm.ErrDuplicatedKey 等通用错误
	return &gorm.Config{
		Logger:         logger.New(gormLogWriter{c.logger}, lc),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// DB 获取 GORM 数据库实例
func (c *Client) DB() *gorm.DB {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB == nil {
		return ErrNotInitialized
	}
	return c.sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接, 可重复调用
func (c *Client) Close() error {
	if c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

// SQL 返回底层连接池, 用于导出连接池指标
func (c *Client) SQL() *sql.DB {
	return c.sqlDB
}

// Driver 返回当前驱动
func (c *Client) Driver() Driver {
	return c.config.Driver()
}

// gormLogWriter 适配 log.Logger 到 GORM logger.Writer, 慢查询记为 warn, 其余记为 debug
type gormLogWriter struct {
	logger *log.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	ev := w.logger.Debug()
	if strings.Contains(msg, "SLOW SQL") {
		ev = w.logger.Warn()
	}
	ev.Str("component", "gorm").Msg(msg)
}
