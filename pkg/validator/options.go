package validator

import (
	"go.uber.org/zap"

	"katydid-common-validation/pkg/validator/lang"
	"katydid-common-validation/pkg/validator/rules"
)

// Option 验证器配置项
type Option func(*Validator)

// WithRegistry 使用指定的规则注册表（默认为全局共享的 DefaultRegistry）
func WithRegistry(registry *Registry) Option {
	return func(v *Validator) {
		if registry != nil {
			v.registry = registry
		}
	}
}

// WithLibrary 使用指定的内置谓词库创建独立的注册表
func WithLibrary(library *rules.Library) Option {
	return func(v *Validator) {
		v.registry = NewRegistry(library)
	}
}

// WithLanguage 使用指定的语言包渲染错误消息（默认 zh-CN）
func WithLanguage(pack lang.Pack) Option {
	return func(v *Validator) {
		if pack != nil {
			v.pack = pack
		}
	}
}

// WithBreakOnFirstFailure Check 时首个字段验证失败后是否停止验证其余字段（默认 true）
// 单个字段内总是在首个失败规则处停止
func WithBreakOnFirstFailure(brk bool) Option {
	return func(v *Validator) {
		v.breakOnFirstFailure = brk
	}
}

// WithRuleTruncation 超过两个元素的规则列表只取前两个元素，而不是返回 ErrMalformedRuleSpec
func WithRuleTruncation(truncate bool) Option {
	return func(v *Validator) {
		v.normalizer.TruncateExtraElements = truncate
	}
}

// WithLogger 注入日志记录器（默认不输出）
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithLabels 预设字段的人性化标记名
func WithLabels(labels map[string]string) Option {
	return func(v *Validator) {
		v.SetLabels(labels)
	}
}
