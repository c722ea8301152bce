package validator

import (
	"errors"
	"fmt"
)

// 验证配置错误
// 规则失败本身不是 error，它被记录到错误集合中并渲染为消息；
// 以下错误表示验证配置有误，直接返回给声明或执行验证的调用方
var (
	// ErrUnknownRule 规则名无法解析为任何谓词
	ErrUnknownRule = errors.New("validator: unknown rule")
	// ErrMalformedRuleSpec 规则声明不符合任何可识别的形式
	ErrMalformedRuleSpec = errors.New("validator: malformed rule spec")
	// ErrInvalidRuleParams 谓词无法使用声明的参数
	ErrInvalidRuleParams = errors.New("validator: invalid rule params")
	// ErrPredicatePanic 谓词执行时 panic
	ErrPredicatePanic = errors.New("validator: predicate panicked")
	// ErrUnsupportedFormat 不支持的错误输出格式
	ErrUnsupportedFormat = errors.New("validator: unsupported error format")
	// ErrInvalidElementName 字段名不能作为 XML 元素名
	ErrInvalidElementName = errors.New("validator: invalid xml element name")
)

// RuleError 带字段和规则位置的配置错误
type RuleError struct {
	// Field 声明时的字段名
	Field string
	// Rule 规则名
	Rule string
	// Index 执行阶段为规则在字段规则列表中的位置；
	// 批量声明时为出错条目在批次中的位置，单条声明为 -1
	Index int
	// Err 底层错误
	Err error
}

// Error 实现 error 接口
func (e *RuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("field '%s': %v", e.Field, e.Err)
	}
	if e.Index < 0 {
		return fmt.Sprintf("field '%s' rule '%s': %v", e.Field, e.Rule, e.Err)
	}
	return fmt.Sprintf("field '%s' rule #%d '%s': %v", e.Field, e.Index, e.Rule, e.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (e *RuleError) Unwrap() error {
	return e.Err
}
