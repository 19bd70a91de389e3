// Package writer 提供日志输出目标: 控制台与按时间/大小轮转的文件
package writer

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabx/rsalab/errors"
)

var (
	ErrUnknownMode = errors.BadRequest("writer: unknown rotate mode")
	ErrCreateDir   = errors.Internal("writer: failed to create log directory")
	ErrCreateFile  = errors.Internal("writer: failed to create rotate writer")
)

// Mode 轮转模式
type Mode string

const (
	ModeTime Mode = "time"
	ModeSize Mode = "size"
)

// ParseMode 解析轮转模式, 空字符串视为按大小轮转
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTime:
		return ModeTime, nil
	case ModeSize, "":
		return ModeSize, nil
	default:
		return "", ErrUnknownMode.WithMetadata(map[string]string{"mode": s})
	}
}

// Config 文件输出配置
type Config struct {
	Mode Mode
	Dir  string
	Name string
	Ext  string

	// 按时间轮转
	MaxAge       time.Duration
	RotationTime time.Duration

	// 按大小轮转
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Path 当前日志文件路径, 按时间轮转时为指向最新文件的软链接
func (c Config) Path() string {
	return filepath.Join(c.Dir, c.Name+"."+c.Ext)
}

// pattern 按时间轮转的文件名模板, 例如 rsalab.202610191200.log
func (c Config) pattern() string {
	return filepath.Join(c.Dir, c.Name+".%Y%m%d%H%M."+c.Ext)
}

// File 创建文件 writer, 目录不存在时自动创建
func File(c Config) (io.WriteCloser, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, ErrCreateDir.WithCause(err).WithMetadata(map[string]string{"dir": c.Dir})
	}

	switch c.Mode {
	case ModeTime:
		w, err := rotatelogs.New(
			c.pattern(),
			rotatelogs.WithLinkName(c.Path()),
			rotatelogs.WithMaxAge(c.MaxAge),
			rotatelogs.WithRotationTime(c.RotationTime),
		)
		if err != nil {
			return nil, ErrCreateFile.WithCause(err)
		}
		return w, nil
	case ModeSize:
		return &lumberjack.Logger{
			Filename:   c.Path(),
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		}, nil
	default:
		return nil, ErrUnknownMode.WithMetadata(map[string]string{"mode": string(c.Mode)})
	}
}
