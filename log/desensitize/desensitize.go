// Package desensitize 在日志写出前替换敏感字段
package desensitize

import (
	"io"
	"sync"
)

// Hook 按添加顺序执行的脱敏规则集合
type Hook struct {
	mu    sync.RWMutex
	rules []Rule
}

func NewHook() *Hook {
	return &Hook{}
}

// AddRules 添加规则, 同名规则会被替换
func (h *Hook) AddRules(rules ...Rule) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if i := h.index(rule.Name()); i >= 0 {
			h.rules[i] = rule
			continue
		}
		h.rules = append(h.rules, rule)
	}
}

// RemoveRule 移除规则
func (h *Hook) RemoveRule(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.index(name)
	if i < 0 {
		return false
	}
	h.rules = append(h.rules[:i], h.rules[i+1:]...)
	return true
}

// Rule 获取指定规则
func (h *Hook) Rule(name string) (Rule, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i := h.index(name); i >= 0 {
		return h.rules[i], true
	}
	return nil, false
}

// RuleCount 规则数量
func (h *Hook) RuleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rules)
}

func (h *Hook) index(name string) int {
	for i, r := range h.rules {
		if r.Name() == name {
			return i
		}
	}
	return -1
}

// Desensitize 依次应用所有启用的规则
func (h *Hook) Desensitize(s string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, rule := range h.rules {
		if rule.Enabled() {
			s = rule.Process(s)
		}
	}
	return s
}

// Writer 写出前脱敏的 io.Writer
type Writer struct {
	writer io.Writer
	hook   *Hook
}

func NewWriter(w io.Writer, hook *Hook) *Writer {
	return &Writer{writer: w, hook: hook}
}

// Write 返回原始长度, 避免调用方把替换后的长度差当作短写
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.hook == nil || w.hook.RuleCount() == 0 {
		return w.writer.Write(p)
	}

	text := string(p)
	out := w.hook.Desensitize(text)
	if out == text {
		return w.writer.Write(p)
	}
	if _, err := io.WriteString(w.writer, out); err != nil {
		return 0, err
	}
	return len(p), nil
}
