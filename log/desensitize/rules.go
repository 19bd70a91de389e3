package desensitize

import (
	"fmt"
	"regexp"
	"sync/atomic"
)

// Rule 脱敏规则
type Rule interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	// Process 返回脱敏后的字符串
	Process(s string) string
}

type toggle struct {
	disabled atomic.Bool
}

func (t *toggle) Enabled() bool {
	return !t.disabled.Load()
}

func (t *toggle) SetEnabled(enabled bool) {
	t.disabled.Store(!enabled)
}

// ContentRule 基于正则匹配内容的规则
type ContentRule struct {
	toggle
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建内容规则
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	if name == "" || pattern == "" {
		return nil, fmt.Errorf("rule name and pattern cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &ContentRule{name: name, pattern: re, replacement: replacement}, nil
}

func (r *ContentRule) Name() string { return r.name }

func (r *ContentRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 替换 JSON 字段的值. 字符串值与对象值都会被整体替换
type FieldRule struct {
	toggle
	name        string
	field       string
	pattern     *regexp.Regexp
	replacement string
}

// NewFieldRule 创建字段规则
func NewFieldRule(name, field, replacement string) (*FieldRule, error) {
	if name == "" || field == "" {
		return nil, fmt.Errorf("rule name and field cannot be empty")
	}
	// "field":"value" | "field":{...} (一层) | "field":123
	re, err := regexp.Compile(fmt.Sprintf(`"%s"\s*:\s*("(?:[^"\\]|\\.)*"|\{[^{}]*\}|-?\d+)`, regexp.QuoteMeta(field)))
	if err != nil {
		return nil, err
	}
	return &FieldRule{name: name, field: field, pattern: re, replacement: replacement}, nil
}

func (r *FieldRule) Name() string { return r.name }

func (r *FieldRule) Process(s string) string {
	if !r.Enabled() {
		return s
	}
	return r.pattern.ReplaceAllString(s, fmt.Sprintf(`"%s":"%s"`, r.field, r.replacement))
}

func mustField(name, field string) *FieldRule {
	r, err := NewFieldRule(name, field, "******")
	if err != nil {
		panic(err)
	}
	return r
}

// KeyMaterialRules 私钥相关字段: d, p, q, phi_n, private_key
func KeyMaterialRules() []Rule {
	return []Rule{
		mustField("private_key", "private_key"),
		mustField("private_exponent", "d"),
		mustField("prime_p", "p"),
		mustField("prime_q", "q"),
		mustField("totient", "phi_n"),
	}
}
