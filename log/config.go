package log

import (
	"time"

	"github.com/kochabx/rsalab/log/writer"
)

// Config 日志配置
type Config struct {
	Level   string     `mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Console bool       `mapstructure:"console" default:"true"`
	Caller  bool       `mapstructure:"caller"`
	File    FileConfig `mapstructure:"file"`
}

// FileConfig 日志文件配置
type FileConfig struct {
	Enabled          bool             `mapstructure:"enabled"`
	Filepath         string           `mapstructure:"filepath" default:"log"`
	Filename         string           `mapstructure:"filename" default:"rsalab"`
	FileExt          string           `mapstructure:"file_ext" default:"log"`
	RotateMode       string           `mapstructure:"rotate_mode" default:"size" validate:"oneof=time size"`
	RotatelogsConfig RotatelogsConfig `mapstructure:"rotatelogs"`
	LumberjackConfig LumberjackConfig `mapstructure:"lumberjack"`
}

// RotatelogsConfig 按时间轮转配置
type RotatelogsConfig struct {
	MaxAge       int `mapstructure:"max_age" default:"24"`
	RotationTime int `mapstructure:"rotation_time" default:"1"`
}

// LumberjackConfig 按大小轮转配置
type LumberjackConfig struct {
	MaxSize    int  `mapstructure:"max_size" default:"100"`
	MaxBackups int  `mapstructure:"max_backups" default:"5"`
	MaxAge     int  `mapstructure:"max_age" default:"30"`
	Compress   bool `mapstructure:"compress"`
}

func (c *FileConfig) toWriterConfig() (writer.Config, error) {
	mode, err := writer.ParseMode(c.RotateMode)
	if err != nil {
		return writer.Config{}, err
	}
	return writer.Config{
		Mode:         mode,
		Dir:          c.Filepath,
		Name:         c.Filename,
		Ext:          c.FileExt,
		MaxAge:       time.Duration(c.RotatelogsConfig.MaxAge) * time.Hour,
		RotationTime: time.Duration(c.RotatelogsConfig.RotationTime) * time.Hour,
		MaxSizeMB:    c.LumberjackConfig.MaxSize,
		MaxBackups:   c.LumberjackConfig.MaxBackups,
		MaxAgeDays:   c.LumberjackConfig.MaxAge,
		Compress:     c.LumberjackConfig.Compress,
	}, nil
}
