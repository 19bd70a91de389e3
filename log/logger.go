package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/rsalab/core/tag"
	"github.com/kochabx/rsalab/errors"
	"github.com/kochabx/rsalab/log/desensitize"
	"github.com/kochabx/rsalab/log/writer"
)

var (
	ErrInvalidLevel = errors.BadRequest("log: invalid level")
	ErrFileConfig   = errors.BadRequest("log: invalid file config")
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	closer          io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// DesensitizeHook 获取脱敏钩子
func (l *Logger) DesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// NewWriter 创建输出到 w 的 Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{}

	// 先收集脱敏钩子, 再用包装后的 writer 构建 zerolog
	for _, opt := range opts {
		opt(logger)
	}
	if logger.desensitizeHook != nil {
		w = desensitize.NewWriter(w, logger.desensitizeHook)
	}

	logger.Logger = zerolog.New(w).With().Timestamp().Logger()
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// New 创建控制台 Logger
func New(opts ...Option) *Logger {
	return NewWriter(writer.Console(), opts...)
}

// NewFile 创建文件 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	return newFile(c, false, opts...)
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	return newFile(c, true, opts...)
}

func newFile(c FileConfig, console bool, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, ErrFileConfig.WithCause(err)
	}

	wc, err := c.toWriterConfig()
	if err != nil {
		return nil, err
	}
	fw, err := writer.File(wc)
	if err != nil {
		return nil, err
	}

	var w io.Writer = fw
	if console {
		w = zerolog.MultiLevelWriter(fw, writer.Console())
	}

	logger := NewWriter(w, opts...)
	logger.closer = fw
	return logger, nil
}

// FromConfig 按配置创建 Logger, 默认挂载私钥脱敏规则
func FromConfig(c Config, opts ...Option) (*Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, ErrInvalidLevel.WithCause(err).WithMetadata(map[string]string{"level": c.Level})
	}

	hook := desensitize.NewHook()
	hook.AddRules(desensitize.KeyMaterialRules()...)

	opts = append([]Option{WithLevel(level), WithDesensitize(hook)}, opts...)
	if c.Caller {
		opts = append(opts, WithCaller())
	}

	switch {
	case c.File.Enabled && c.Console:
		return NewMulti(c.File, opts...)
	case c.File.Enabled:
		return NewFile(c.File, opts...)
	default:
		return New(opts...), nil
	}
}
