package config

import (
	"errors"
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/rsalab/core/tag"
	"github.com/kochabx/rsalab/core/validator"
	kerrors "github.com/kochabx/rsalab/errors"
)

var (
	ErrApplyDefaults = kerrors.Internal("config: failed to apply defaults")
	ErrRead          = kerrors.Internal("config: failed to read file")
	ErrParse         = kerrors.Internal("config: parse error")
	ErrInvalid       = kerrors.BadRequest("config: validation failed")
)

// FileLoader 从文件加载配置, 环境变量优先于文件
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	found    bool
}

// NewFileLoader 创建文件加载器. name 带扩展名, 扩展名决定文件格式
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator, envPrefix string) *FileLoader {
	ext := path.Ext(name)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(strings.TrimSuffix(name, ext))
	v.SetConfigType(strings.TrimPrefix(ext, "."))

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{viper: v, validate: validate}
}

// Load 实现 Loader. 配置文件不存在时仅使用默认值和环境变量
func (l *FileLoader) Load(target any) error {
	if err := tag.ApplyDefaults(target); err != nil {
		return ErrApplyDefaults.WithCause(err)
	}

	// AutomaticEnv 只对已知 key 生效, 先把结构体字段注册为 key
	if err := bindStruct(l.viper, target); err != nil {
		return ErrParse.WithCause(err)
	}

	l.found = true
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ErrRead.WithCause(err)
		}
		l.found = false
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return ErrParse.WithCause(err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return ErrInvalid.WithCause(err)
		}
	}
	return nil
}

// Watch 实现 Loader. 没有配置文件时不监听
func (l *FileLoader) Watch(callback func()) error {
	if !l.found {
		return nil
	}
	l.viper.OnConfigChange(func(fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})
	l.viper.WatchConfig()
	return nil
}
