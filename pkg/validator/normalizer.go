package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"katydid-common-validation/pkg/validator/rules"
)

var nonLetterRegex = regexp.MustCompile(`[^\p{L}]+`)

// DefaultLabel 字段的默认人性化标记名：连续的非字母字符替换为一个空格
func DefaultLabel(field string) string {
	return nonLetterRegex.ReplaceAllString(field, " ")
}

// Normalizer 规则声明解析器
// 支持的声明形式：
//
//	"required"                               // 规则名
//	"Class::method"                          // 静态方法引用
//	map[string]any{"minlength": 4}           // 单个 规则名 -> 参数
//	[]any{"required"}                        // 单元素列表
//	[]any{"rangelength", []any{4, 16}}       // [规则名, 参数]
//	[]any{"minlength", 4}                    // 标量参数自动转为序列
//	[]any{target, "method"}                  // 绑定方法（target 实现 MethodSet）
//	[]any{[]any{target, "method"}, params}   // 带参数的绑定方法
//	RuleSpec / RuleName / CallableFunc       // 已构造好的规则
type Normalizer struct {
	// TruncateExtraElements 超过两个元素的列表只取前两个元素
	// 关闭时（默认）此类声明返回 ErrMalformedRuleSpec
	TruncateExtraElements bool
}

// ParseRule 使用默认策略解析规则声明
func ParseRule(input any) (RuleSpec, error) {
	return Normalizer{}.Parse(input)
}

// Parse 将规则声明解析为 RuleSpec
func (n Normalizer) Parse(input any) (RuleSpec, error) {
	switch in := input.(type) {
	case nil:
		return RuleSpec{}, fmt.Errorf("%w: nil rule", ErrMalformedRuleSpec)
	case string:
		name, err := ParseRuleName(in)
		if err != nil {
			return RuleSpec{}, err
		}
		return RuleSpec{Name: name, Params: []any{}}, nil
	case RuleSpec:
		return n.fromSpec(in)
	case *RuleSpec:
		if in == nil {
			return RuleSpec{}, fmt.Errorf("%w: nil rule", ErrMalformedRuleSpec)
		}
		return n.fromSpec(*in)
	case []any:
		return n.fromList(in)
	}

	if name, ok, err := n.parseNameSlot(input); ok {
		if err != nil {
			return RuleSpec{}, err
		}
		return RuleSpec{Name: name, Params: []any{}}, nil
	}

	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Map:
		return n.fromMap(rv)
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return n.fromList(list)
	}

	return RuleSpec{}, fmt.Errorf("%w: unsupported rule type %T", ErrMalformedRuleSpec, input)
}

func (n Normalizer) fromSpec(spec RuleSpec) (RuleSpec, error) {
	if spec.Name.IsZero() {
		return RuleSpec{}, fmt.Errorf("%w: empty rule name", ErrMalformedRuleSpec)
	}
	params := make([]any, len(spec.Params))
	copy(params, spec.Params)
	return RuleSpec{Name: spec.Name, Params: params}, nil
}

// fromMap 单个 规则名 -> 参数 的映射
// 多个条目的 map 没有声明顺序，直接拒绝
func (n Normalizer) fromMap(rv reflect.Value) (RuleSpec, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return RuleSpec{}, fmt.Errorf("%w: rule map keys must be strings, got %s", ErrMalformedRuleSpec, rv.Type().Key())
	}
	if rv.Len() != 1 {
		return RuleSpec{}, fmt.Errorf("%w: rule map must have exactly one entry, got %d", ErrMalformedRuleSpec, rv.Len())
	}

	iter := rv.MapRange()
	iter.Next()
	name, err := ParseRuleName(iter.Key().String())
	if err != nil {
		return RuleSpec{}, err
	}
	return RuleSpec{Name: name, Params: toParams(iter.Value().Interface())}, nil
}

func (n Normalizer) fromList(list []any) (RuleSpec, error) {
	switch {
	case len(list) == 0:
		return RuleSpec{}, fmt.Errorf("%w: empty rule list", ErrMalformedRuleSpec)
	case len(list) > 2 && !n.TruncateExtraElements:
		return RuleSpec{}, fmt.Errorf("%w: rule list has %d elements, expected at most 2", ErrMalformedRuleSpec, len(list))
	case len(list) > 2:
		list = list[:2]
	}

	// [target, "method"] 直接作为绑定方法
	if len(list) == 2 {
		if name, ok := boundMethod(list); ok {
			return RuleSpec{Name: name, Params: []any{}}, nil
		}
	}

	name, ok, err := n.parseNameSlot(list[0])
	if !ok {
		return RuleSpec{}, fmt.Errorf("%w: rule name must be a string, RuleName, callable or [target, method], got %T", ErrMalformedRuleSpec, list[0])
	}
	if err != nil {
		return RuleSpec{}, err
	}

	params := []any{}
	if len(list) == 2 {
		params = toParams(list[1])
	}
	return RuleSpec{Name: name, Params: params}, nil
}

// parseNameSlot 解析规则名位置上的值
// ok 为 false 表示该值不是可识别的规则名形式
func (n Normalizer) parseNameSlot(slot any) (name RuleName, ok bool, err error) {
	switch s := slot.(type) {
	case string:
		name, err = ParseRuleName(s)
		return name, true, err
	case RuleName:
		if s.IsZero() {
			return RuleName{}, true, fmt.Errorf("%w: empty rule name", ErrMalformedRuleSpec)
		}
		return s, true, nil
	case CallableFunc:
		return callableName(s)
	case func(Reporter, any, ...any) (bool, error):
		return callableName(s)
	case rules.Predicate:
		return predicateName(s)
	case func(any, ...any) (bool, error):
		return predicateName(s)
	case []any:
		if len(s) == 2 {
			if name, ok := boundMethod(s); ok {
				return name, true, nil
			}
		}
	}
	return RuleName{}, false, nil
}

func callableName(fn CallableFunc) (RuleName, bool, error) {
	if fn == nil {
		return RuleName{}, true, fmt.Errorf("%w: nil callable", ErrMalformedRuleSpec)
	}
	return Callable(fn), true, nil
}

// predicateName 普通谓词函数按匿名可调用规则处理
func predicateName(p rules.Predicate) (RuleName, bool, error) {
	if p == nil {
		return RuleName{}, true, fmt.Errorf("%w: nil predicate", ErrMalformedRuleSpec)
	}
	return Callable(func(_ Reporter, value any, params ...any) (bool, error) {
		return p(value, params...)
	}), true, nil
}

func boundMethod(pair []any) (RuleName, bool) {
	target, ok := pair[0].(MethodSet)
	if !ok || target == nil {
		return RuleName{}, false
	}
	method, ok := pair[1].(string)
	if !ok || method == "" {
		return RuleName{}, false
	}
	return Method(target, method), true
}

// toParams 将参数位置上的值转为有序序列
// nil 为空序列，切片和数组按元素展开，其余标量包装为单元素序列
func toParams(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		params := make([]any, len(v))
		copy(params, v)
		return params
	case string, []byte:
		return []any{v}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		params := make([]any, rv.Len())
		for i := range params {
			params[i] = rv.Index(i).Interface()
		}
		return params
	}
	return []any{value}
}
