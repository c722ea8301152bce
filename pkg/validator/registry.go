package validator

import (
	"fmt"
	"strings"
	"sync"

	"katydid-common-validation/pkg/validator/rules"
)

// Registry 规则注册表与分发器
// 职责：把 RuleName 解析为可调用的谓词并执行，待验证值总是作为第一个参数
//
// 解析顺序（执行时按 RuleSpec 逐个解析）：
//  1. 普通规则名命中内置谓词库 -> 调用，错误标识为规则名
//  2. 绑定方法 [target, method] -> 调用 target 的方法，错误标识为方法名
//  3. 普通规则名/注册函数名 -> 调用注册的函数，错误标识为规则名
//  4. 匿名可调用规则 -> 直接调用，没有错误标识，由它自己通过 Reporter 登记
//  5. 静态引用 Class::method -> 调用注册类的方法，错误标识为方法名
//
// 注册在验证开始前完成；注册与解析都加锁，同一个注册表可被多个验证器共享
type Registry struct {
	mu      sync.RWMutex
	library *rules.Library
	funcs   map[string]rules.Predicate
	classes map[string]MethodSet
}

// NewRegistry 创建注册表，library 为 nil 时使用全部内置谓词
func NewRegistry(library *rules.Library) *Registry {
	if library == nil {
		library = rules.NewDefaultLibrary()
	}
	return &Registry{
		library: library,
		funcs:   make(map[string]rules.Predicate),
		classes: make(map[string]MethodSet),
	}
}

// Library 返回内置谓词库
func (r *Registry) Library() *rules.Library {
	return r.library
}

// RegisterFunc 注册自定义函数
// 名称不能为空，也不能包含 "::"（该形式保留给静态引用）
func (r *Registry) RegisterFunc(name string, fn rules.Predicate) *Registry {
	if name == "" || fn == nil || strings.Contains(name, staticSeparator) {
		return r
	}
	r.mu.Lock()
	r.funcs[name] = fn
	r.mu.Unlock()
	return r
}

// RegisterClass 注册静态引用使用的类
func (r *Registry) RegisterClass(class string, methods MethodSet) *Registry {
	if class == "" || methods == nil {
		return r
	}
	r.mu.Lock()
	r.classes[class] = methods
	r.mu.Unlock()
	return r
}

// RegisterStatic 为类注册单个静态方法
// 类不存在时自动创建；类已通过 RegisterClass 注册为非 Methods 类型时忽略
func (r *Registry) RegisterStatic(class, method string, fn rules.Predicate) *Registry {
	if class == "" || method == "" || fn == nil {
		return r
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.classes[class]
	if !ok {
		r.classes[class] = Methods{method: fn}
		return r
	}
	if methods, isMap := existing.(Methods); isMap {
		methods[method] = fn
	}
	return r
}

// HasFunc 是否注册了指定名称的函数
func (r *Registry) HasFunc(name string) bool {
	r.mu.RLock()
	_, ok := r.funcs[name]
	r.mu.RUnlock()
	return ok
}

// Resolvable 声明阶段检查规则名是否可解析
// 普通规则名与注册函数名在声明时就必须存在；
// 绑定方法、静态引用和匿名规则在执行时解析
func (r *Registry) Resolvable(name RuleName) error {
	switch name.kind {
	case RuleNamed:
		if r.library.Has(name.name) || r.HasFunc(name.name) {
			return nil
		}
	case RuleFunc:
		if r.HasFunc(name.name) {
			return nil
		}
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownRule, name)
}

// Dispatch 执行单条规则
// 返回是否通过、失败时使用的错误标识（空字符串表示没有标识）以及配置错误
func (r *Registry) Dispatch(spec RuleSpec, value any, report Reporter) (passed bool, identifier string, err error) {
	name := spec.Name

	// 1. 内置谓词
	if name.kind == RuleNamed {
		if p, ok := r.library.Lookup(name.name); ok {
			passed, err = invoke(p, value, spec.Params)
			return passed, name.name, err
		}
	}

	switch name.kind {
	case RuleMethod:
		// 2. 绑定方法
		if name.target == nil {
			return false, "", fmt.Errorf("%w: nil method target for %q", ErrMalformedRuleSpec, name.name)
		}
		p, ok := name.target.RuleMethod(name.name)
		if !ok {
			return false, "", fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		passed, err = invoke(p, value, spec.Params)
		return passed, name.name, err

	case RuleNamed, RuleFunc:
		// 3. 注册函数
		r.mu.RLock()
		p, ok := r.funcs[name.name]
		r.mu.RUnlock()
		if !ok {
			return false, "", fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		passed, err = invoke(p, value, spec.Params)
		return passed, name.name, err

	case RuleCallable:
		// 4. 匿名可调用规则
		if name.callable == nil {
			return false, "", fmt.Errorf("%w: nil callable", ErrMalformedRuleSpec)
		}
		if report == nil {
			report = discardReporter{}
		}
		passed, err = invokeCallable(name.callable, report, value, spec.Params)
		return passed, "", err

	case RuleStatic:
		// 5. 静态引用
		r.mu.RLock()
		class, ok := r.classes[name.class]
		r.mu.RUnlock()
		if !ok {
			return false, "", fmt.Errorf("%w: %s (class not registered)", ErrUnknownRule, name)
		}
		p, ok := class.RuleMethod(name.name)
		if !ok {
			return false, "", fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}
		passed, err = invoke(p, value, spec.Params)
		return passed, name.name, err
	}

	return false, "", fmt.Errorf("%w: %s", ErrUnknownRule, name)
}

// discardReporter 未提供 Reporter 时丢弃登记的错误
type discardReporter struct{}

func (discardReporter) Report(string, ...any) {}

// invoke 调用谓词
// 错误恢复：谓词 panic 不会中断整个进程，转为 ErrPredicatePanic 返回
func invoke(p rules.Predicate, value any, params []any) (passed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			passed, err = false, fmt.Errorf("%w: %v", ErrPredicatePanic, r)
		}
	}()

	passed, err = p(value, params...)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidRuleParams, err)
	}
	return passed, nil
}

func invokeCallable(fn CallableFunc, report Reporter, value any, params []any) (passed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			passed, err = false, fmt.Errorf("%w: %v", ErrPredicatePanic, r)
		}
	}()

	passed, err = fn(report, value, params...)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidRuleParams, err)
	}
	return passed, nil
}
