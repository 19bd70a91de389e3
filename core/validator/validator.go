package validator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Validator 校验器接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error
	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error
	// Var 校验单个值
	Var(field any, tag string) error
}

// Option 校验器选项
type Option func(*validatorImpl)

// WithLanguage 设置默认翻译语言
func WithLanguage(lang string) Option {
	return func(v *validatorImpl) {
		v.lang = lang
	}
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator   *validator.Validate
	translators map[string]ut.Translator
	mu          sync.RWMutex
	lang        string
}

// Validate 全局校验器实例
var Validate Validator = New()

// New 创建校验器, 注册英文/中文翻译与自定义标签
func New(opts ...Option) Validator {
	v := &validatorImpl{
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		translators: make(map[string]ut.Translator),
		lang:        "en",
	}
	for _, opt := range opts {
		opt(v)
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())
	if trans, ok := uni.GetTranslator("en"); ok {
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
		v.translators["en"] = trans
	}
	if trans, ok := uni.GetTranslator("zh"); ok {
		_ = zh_translations.RegisterDefaultTranslations(v.validator, trans)
		v.translators["zh"] = trans
	}

	for _, ct := range customTags {
		_ = v.validator.RegisterValidation(ct.tag, ct.fn)
		for lang, msg := range ct.messages {
			if trans, ok := v.translators[lang]; ok {
				registerMessage(v.validator, trans, ct.tag, msg)
			}
		}
	}

	return v
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.StructCtx(ctx, s))
}

// Var 校验单个值
func (v *validatorImpl) Var(field any, tag string) error {
	return v.translate(v.validator.Var(field, tag))
}

// translate 将 validator.ValidationErrors 转为带翻译消息的 *ValidationErrors
func (v *validatorImpl) translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	v.mu.RLock()
	trans, ok := v.translators[v.lang]
	v.mu.RUnlock()

	out := &ValidationErrors{}
	for _, fe := range verrs {
		msg := fe.Error()
		if ok {
			msg = fe.Translate(trans)
		}
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: msg,
		})
	}
	return out
}

// FieldError 字段错误详情
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// ValidationErrors 校验错误集合
type ValidationErrors struct {
	Fields []FieldError
}

func (ve *ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve.Fields))
	for _, fe := range ve.Fields {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

// HasField 检查是否存在指定字段的错误
func (ve *ValidationErrors) HasField(field string) bool {
	for _, fe := range ve.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}
