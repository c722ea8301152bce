// Package rules 内置谓词库
//
// 每个谓词接收待验证值（subject）和零个或多个规则参数，返回是否通过。
// 谓词只在参数本身不可用时（如非法正则、缺少必需参数）返回 error，
// 普通的验证失败返回 false, nil。
package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Predicate 谓词函数的统一调用形式
// value 为待验证值，params 为声明时的规则参数（不含 value）
type Predicate func(value any, params ...any) (bool, error)

// 内置规则名
const (
	NameRequired     = "required"
	NamePattern      = "pattern"
	NameRangeLength  = "rangelength"
	NameMinLength    = "minlength"
	NameMaxLength    = "maxlength"
	NameExactLength  = "exactlength"
	NameEqualTo      = "equalto"
	NameEmail        = "email"
	NameURL          = "url"
	NameIP           = "ip"
	NamePhone        = "phone"
	NameDate         = "date"
	NameNumber       = "number"
	NameDigits       = "digits"
	NameDecimal      = "decimal"
	NameRange        = "range"
	NameMin          = "min"
	NameMax          = "max"
	NameColor        = "color"
	NameInArray      = "inarray"
	NameAlpha        = "alpha"
	NameAlphaNumeric = "alphanumeric"
	NameAlphaDash    = "alphadash"
)

// missing 输入中不存在的键对应的值
type missing struct{}

func (missing) String() string { return "" }

// Missing 缺失值哨兵
// 输入映射中不存在的字段以 Missing 作为待验证值传给谓词，
// 是否为空由 required 判定，缺失本身不是错误
var Missing any = missing{}

// IsMissing 判断是否为缺失值哨兵
func IsMissing(value any) bool {
	_, ok := value.(missing)
	return ok
}

// Library 谓词查找表
// 注册阶段写入，验证阶段只读；读写均加锁，可在多个 goroutine 中共享
type Library struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
}

// NewLibrary 创建空的谓词库
func NewLibrary() *Library {
	return &Library{predicates: make(map[string]Predicate)}
}

// NewDefaultLibrary 创建包含全部内置谓词的谓词库
// 每次调用返回独立实例，调用方注册的谓词不会影响其他实例
func NewDefaultLibrary() *Library {
	l := &Library{predicates: make(map[string]Predicate, len(builtins))}
	for name, p := range builtins {
		l.predicates[name] = p
	}
	return l
}

// Register 注册谓词，同名覆盖
func (l *Library) Register(name string, p Predicate) *Library {
	if name == "" || p == nil {
		return l
	}
	l.mu.Lock()
	l.predicates[name] = p
	l.mu.Unlock()
	return l
}

// Lookup 按名称查找谓词
func (l *Library) Lookup(name string) (Predicate, bool) {
	l.mu.RLock()
	p, ok := l.predicates[name]
	l.mu.RUnlock()
	return p, ok
}

// Has 是否存在指定名称的谓词
func (l *Library) Has(name string) bool {
	_, ok := l.Lookup(name)
	return ok
}

// Names 返回已注册的谓词名（已排序）
func (l *Library) Names() []string {
	l.mu.RLock()
	names := make([]string, 0, len(l.predicates))
	for name := range l.predicates {
		names = append(names, name)
	}
	l.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Call 按名称调用谓词
func (l *Library) Call(name string, value any, params ...any) (bool, error) {
	p, ok := l.Lookup(name)
	if !ok {
		return false, fmt.Errorf("rules: predicate '%s' not found", name)
	}
	return p(value, params...)
}

var builtins = map[string]Predicate{
	NameRequired:     Required,
	NamePattern:      Pattern,
	NameRangeLength:  RangeLength,
	NameMinLength:    MinLength,
	NameMaxLength:    MaxLength,
	NameExactLength:  ExactLength,
	NameEqualTo:      EqualTo,
	NameEmail:        Email,
	NameURL:          URL,
	NameIP:           IP,
	NamePhone:        Phone,
	NameDate:         Date,
	NameNumber:       Number,
	NameDigits:       Digits,
	NameDecimal:      Decimal,
	NameRange:        Range,
	NameMin:          Min,
	NameMax:          Max,
	NameColor:        Color,
	NameInArray:      InArray,
	NameAlpha:        Alpha,
	NameAlphaNumeric: AlphaNumeric,
	NameAlphaDash:    AlphaDash,
}
