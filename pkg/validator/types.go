package validator

import (
	"fmt"
	"strings"

	"katydid-common-validation/pkg/validator/rules"
)

// Missing 输入中不存在的字段对应的待验证值
var Missing = rules.Missing

// staticSeparator 静态方法引用的分隔符（Class::method）
const staticSeparator = "::"

// RuleKind 规则名的种类
type RuleKind uint8

const (
	// RuleNamed 普通规则名：先查内置谓词库，再查注册的函数
	RuleNamed RuleKind = iota
	// RuleFunc 只从注册的函数中解析
	RuleFunc
	// RuleMethod 绑定方法 [target, method]
	RuleMethod
	// RuleStatic 静态方法引用 Class::method
	RuleStatic
	// RuleCallable 匿名可调用对象，没有自动的错误标识
	RuleCallable
)

// String 实现 fmt.Stringer 接口
func (k RuleKind) String() string {
	switch k {
	case RuleNamed:
		return "named"
	case RuleFunc:
		return "func"
	case RuleMethod:
		return "method"
	case RuleStatic:
		return "static"
	case RuleCallable:
		return "callable"
	}
	return fmt.Sprintf("RuleKind(%d)", uint8(k))
}

// MethodSet 可按名称提供谓词的对象
// 绑定方法（RuleMethod）的 target 以及注册的静态类（RuleStatic）都通过它解析方法，
// 不会按字符串反射调用任意方法
type MethodSet interface {
	RuleMethod(name string) (rules.Predicate, bool)
}

// Methods 基于 map 的 MethodSet
type Methods map[string]rules.Predicate

// RuleMethod 实现 MethodSet 接口
func (m Methods) RuleMethod(name string) (rules.Predicate, bool) {
	p, ok := m[name]
	return p, ok && p != nil
}

// Reporter 供匿名可调用规则自行登记错误
type Reporter interface {
	// Report 为当前字段登记错误，identifier 为错误标识，params 为规则参数（不含待验证值）
	Report(identifier string, params ...any)
}

// CallableFunc 匿名可调用规则
// 与普通谓词不同，它能拿到 Reporter，失败时由它自己决定错误标识
type CallableFunc func(report Reporter, value any, params ...any) (bool, error)

// RuleName 规则名（带标签的变体）
// 零值无效，使用 Named、Func、Method、Static、Callable 或 ParseRuleName 构造
type RuleName struct {
	kind     RuleKind
	name     string
	class    string
	target   MethodSet
	callable CallableFunc
}

// Named 普通规则名
func Named(name string) RuleName {
	return RuleName{kind: RuleNamed, name: name}
}

// Func 注册函数名
func Func(name string) RuleName {
	return RuleName{kind: RuleFunc, name: name}
}

// Method 绑定方法
func Method(target MethodSet, method string) RuleName {
	return RuleName{kind: RuleMethod, name: method, target: target}
}

// Static 静态方法引用
func Static(class, method string) RuleName {
	return RuleName{kind: RuleStatic, name: method, class: class}
}

// Callable 匿名可调用规则
func Callable(fn CallableFunc) RuleName {
	return RuleName{kind: RuleCallable, callable: fn}
}

// ParseRuleName 解析字符串形式的规则名
// 含 "::" 的解析为静态方法引用，其余为普通规则名
func ParseRuleName(s string) (RuleName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RuleName{}, fmt.Errorf("%w: empty rule name", ErrMalformedRuleSpec)
	}
	if !strings.Contains(s, staticSeparator) {
		return Named(s), nil
	}
	class, method, _ := strings.Cut(s, staticSeparator)
	if class == "" || method == "" {
		return RuleName{}, fmt.Errorf("%w: invalid static reference %q", ErrMalformedRuleSpec, s)
	}
	return Static(class, method), nil
}

// Kind 规则名种类
func (n RuleName) Kind() RuleKind { return n.kind }

// Name 规则名；方法与静态引用返回方法名
func (n RuleName) Name() string { return n.name }

// Class 静态引用的类名
func (n RuleName) Class() string { return n.class }

// IsZero 是否为零值
func (n RuleName) IsZero() bool {
	switch n.kind {
	case RuleCallable:
		return n.callable == nil
	case RuleMethod:
		return n.target == nil || n.name == ""
	case RuleStatic:
		return n.class == "" || n.name == ""
	}
	return n.name == ""
}

// Identifier 规则失败时自动使用的错误标识
// 匿名可调用规则没有自动标识，返回空字符串
func (n RuleName) Identifier() string {
	if n.kind == RuleCallable {
		return ""
	}
	return n.name
}

// String 实现 fmt.Stringer 接口
func (n RuleName) String() string {
	switch n.kind {
	case RuleMethod:
		return fmt.Sprintf("%T.%s", n.target, n.name)
	case RuleStatic:
		return n.class + staticSeparator + n.name
	case RuleCallable:
		return "<callable>"
	}
	return n.name
}

// RuleSpec 规范化后的规则：规则名 + 有序参数
// Params 不包含待验证值，待验证值在执行时才放到参数最前面
type RuleSpec struct {
	Name   RuleName
	Params []any
}

// String 实现 fmt.Stringer 接口
func (s RuleSpec) String() string {
	if len(s.Params) == 0 {
		return s.Name.String()
	}
	return fmt.Sprintf("%s%v", s.Name, s.Params)
}

// FieldRule 批量声明时的一条规则
type FieldRule struct {
	Field string
	Rule  any
}
