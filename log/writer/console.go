package writer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleOption 控制台输出选项
type ConsoleOption func(*zerolog.ConsoleWriter)

// WithOutput 替换输出目标, 默认 os.Stdout
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *zerolog.ConsoleWriter) {
		c.Out = w
	}
}

// WithNoColor 关闭颜色, 输出到非终端时使用
func WithNoColor() ConsoleOption {
	return func(c *zerolog.ConsoleWriter) {
		c.NoColor = true
	}
}

// Console 创建控制台 writer
func Console(opts ...ConsoleOption) zerolog.ConsoleWriter {
	c := zerolog.ConsoleWriter{
		Out:         os.Stdout,
		TimeFormat:  time.DateTime,
		FormatLevel: formatLevel,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func formatLevel(i any) string {
	if i == nil {
		return "| ???   |"
	}
	return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
}
