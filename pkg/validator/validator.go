package validator

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"katydid-common-validation/pkg/validator/lang"
)

// arraySuffix 数组形式字段名的后缀，读取输入时去掉
const arraySuffix = "[]"

var (
	// defaultRegistry 默认规则注册表，全局单例
	// 自定义函数与静态类注册一次，所有验证器共享
	defaultRegistry *Registry
	// once 确保默认注册表只初始化一次（线程安全）
	once sync.Once
)

// DefaultRegistry 获取默认规则注册表（单例模式）
// 线程安全，可在多个 goroutine 中并发调用
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}

// Validator 基于 map 数据的规则验证器
// 设计原则：
//   - 输入显式传入：New/SetData 提供待验证数据，不会隐式读取请求
//   - 声明与执行分离：AddRule 只做规范化，Check 时才分发执行
//   - 错误有序：按字段首次失败的顺序收集，每个字段至多一条
//
// 使用示例：
//
//	v := validator.New(map[string]any{"age": 70})
//	_ = v.AddRule("age", []any{"range", []any{18, 65}})
//	if ok, err := v.Check(); err == nil && !ok {
//	    msgs := v.Messages()
//	}
//
// 一个 Validator 代表一次验证会话，非线程安全；
// 复用同一个实例时先调用 ClearErrors，否则已有错误的字段不会被重新记录
type Validator struct {
	// data 待验证数据
	data map[string]any
	// fields 按声明顺序排列的字段名（声明时的原始名称）
	fields []string
	// rules 字段 -> 规范化后的规则序列
	rules map[string][]RuleSpec
	// labels 字段 -> 人性化标记名
	labels map[string]string
	// templates 字段 -> 错误标识 -> 自定义消息模板
	templates map[string]map[string]string

	registry   *Registry
	normalizer Normalizer
	pack       lang.Pack
	errors     *ErrorCollector
	logger     *zap.Logger

	// breakOnFirstFailure Check 的默认中断策略
	breakOnFirstFailure bool
}

// New 创建验证器
// data 为 nil 时视为空输入，所有字段的待验证值都是 Missing
func New(data map[string]any, opts ...Option) *Validator {
	v := &Validator{
		data:                data,
		rules:               make(map[string][]RuleSpec),
		labels:              make(map[string]string),
		templates:           make(map[string]map[string]string),
		registry:            DefaultRegistry(),
		pack:                lang.ZhCN(),
		errors:              NewErrorCollector(),
		logger:              zap.NewNop(),
		breakOnFirstFailure: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate 便捷函数：一次性声明规则并验证全部字段
// 返回：验证通过时为 nil，否则为按顺序渲染的错误消息
func Validate(data map[string]any, batch ...FieldRule) (Messages, error) {
	v := New(data)
	if err := v.AddRules(batch...); err != nil {
		return nil, err
	}
	ok, err := v.CheckAll()
	if err != nil || ok {
		return nil, err
	}
	return v.Messages(), nil
}

// SetData 替换待验证数据（不会清空已有错误）
func (v *Validator) SetData(data map[string]any) *Validator {
	v.data = data
	return v
}

// Data 返回待验证数据
func (v *Validator) Data() map[string]any {
	return v.data
}

// Registry 返回使用的规则注册表
func (v *Validator) Registry() *Registry {
	return v.registry
}

// ============================================================================
// 声明
// ============================================================================

// SetLabel 设置字段的人性化标记名
func (v *Validator) SetLabel(field, label string) *Validator {
	v.labels[field] = label
	return v
}

// SetLabels 批量设置标记名，与已有设置冲突时以新值为准
func (v *Validator) SetLabels(labels map[string]string) *Validator {
	for field, label := range labels {
		v.labels[field] = label
	}
	return v
}

// Label 获取字段的标记名
func (v *Validator) Label(field string) (string, bool) {
	label, ok := v.labels[field]
	return label, ok
}

// AddRule 为字段追加一条规则
// 规则声明形式见 Normalizer；字段尚无标记名时设置默认标记名
func (v *Validator) AddRule(field string, rule any) error {
	return v.addRule(field, rule, -1)
}

// AddFieldRules 为同一字段按顺序追加多条规则，遇到第一条错误的声明即停止
func (v *Validator) AddFieldRules(field string, rules ...any) error {
	for i, rule := range rules {
		if err := v.addRule(field, rule, i); err != nil {
			return err
		}
	}
	return nil
}

// AddRules 批量声明规则，遇到第一条错误的声明即停止
func (v *Validator) AddRules(batch ...FieldRule) error {
	for i, fr := range batch {
		if err := v.addRule(fr.Field, fr.Rule, i); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) addRule(field string, rule any, index int) error {
	if field == "" {
		return &RuleError{Field: field, Index: index, Err: fmt.Errorf("%w: empty field name", ErrMalformedRuleSpec)}
	}

	spec, err := v.normalizer.Parse(rule)
	if err != nil {
		return &RuleError{Field: field, Index: index, Err: err}
	}
	if err = v.registry.Resolvable(spec.Name); err != nil {
		return &RuleError{Field: field, Rule: spec.Name.String(), Index: index, Err: err}
	}

	if _, exists := v.rules[field]; !exists {
		v.fields = append(v.fields, field)
	}
	v.rules[field] = append(v.rules[field], spec)

	if _, ok := v.labels[field]; !ok {
		v.labels[field] = DefaultLabel(field)
	}
	return nil
}

// Rules 返回字段已声明的规则（副本）
func (v *Validator) Rules(field string) []RuleSpec {
	specs := v.rules[field]
	out := make([]RuleSpec, len(specs))
	copy(out, specs)
	return out
}

// Fields 按声明顺序返回字段名
func (v *Validator) Fields() []string {
	out := make([]string, len(v.fields))
	copy(out, v.fields)
	return out
}

// SetErrorTemplate 设置字段某个错误标识的自定义消息模板
func (v *Validator) SetErrorTemplate(field, identifier, template string) *Validator {
	if v.templates[field] == nil {
		v.templates[field] = make(map[string]string)
	}
	v.templates[field][identifier] = template
	return v
}

// SetErrorTemplates 批量设置自定义消息模板：字段 -> 错误标识 -> 模板
func (v *Validator) SetErrorTemplates(templates map[string]map[string]string) *Validator {
	for field, byIdentifier := range templates {
		for identifier, template := range byIdentifier {
			v.SetErrorTemplate(field, identifier, template)
		}
	}
	return v
}

// ============================================================================
// 执行
// ============================================================================

// Check 使用配置的中断策略执行验证（默认字段首次失败后停止整个验证）
// 返回：错误集合为空时为 true；规则配置有误时返回 *RuleError
func (v *Validator) Check() (bool, error) {
	return v.CheckWith(v.breakOnFirstFailure)
}

// CheckAll 验证全部字段，每个字段记录各自的首个失败
func (v *Validator) CheckAll() (bool, error) {
	return v.CheckWith(false)
}

// CheckWith 执行验证
//
// 验证流程（按声明顺序逐个字段）：
//  1. 去掉字段名末尾的 "[]" 作为读取键和错误键
//  2. 读取待验证值，键不存在时为 Missing
//  3. 按顺序执行字段的规则，首个失败的规则记录错误并停止该字段
//  4. brk 为 true 时，出现失败后不再验证后续字段
//
// 已经有错误的字段不会被覆盖（多次调用 Check 时错误会累积）
func (v *Validator) CheckWith(brk bool) (bool, error) {
	failures := 0

fields:
	for _, declared := range v.fields {
		field := strings.TrimSuffix(declared, arraySuffix)

		value, ok := v.data[field]
		if !ok {
			value = Missing
		}

		for i, spec := range v.rules[declared] {
			reporter := &entryReporter{
				collector: v.errors,
				field:     field,
				declared:  declared,
				value:     value,
			}

			passed, identifier, err := v.registry.Dispatch(spec, value, reporter)
			if err != nil {
				v.logger.Warn("validation rule misconfigured",
					zap.String("field", declared),
					zap.Stringer("rule", spec.Name),
					zap.Int("index", i),
					zap.Error(err))
				return false, &RuleError{Field: declared, Rule: spec.Name.String(), Index: i, Err: err}
			}
			if passed {
				continue
			}

			if !reporter.reported {
				v.errors.RecordIfAbsent(ErrorEntry{
					Field:      field,
					Declared:   declared,
					Identifier: identifier,
					Params:     withSubject(value, spec.Params),
				})
			}
			failures++

			v.logger.Debug("validation rule failed",
				zap.String("field", field),
				zap.Stringer("rule", spec.Name),
				zap.String("identifier", identifier),
				zap.Int("index", i))

			if brk {
				break fields
			}
			break
		}
	}

	v.logger.Debug("validation finished",
		zap.Int("fields", len(v.fields)),
		zap.Int("failures", failures),
		zap.Int("errors", v.errors.Len()),
		zap.Bool("break_on_first_failure", brk))

	return v.errors.IsEmpty(), nil
}

// ============================================================================
// 错误
// ============================================================================

// AddError 直接为字段登记错误（覆盖已有记录）
// params 为规则参数，待验证值从当前数据中读取并放在最前面
func (v *Validator) AddError(field, identifier string, params ...any) *Validator {
	key := strings.TrimSuffix(field, arraySuffix)
	value, ok := v.data[key]
	if !ok {
		value = Missing
	}
	v.errors.Record(ErrorEntry{
		Field:      key,
		Declared:   field,
		Identifier: identifier,
		Params:     withSubject(value, params),
	})
	return v
}

// ClearErrors 清空错误，用于同一验证器的重新验证
func (v *Validator) ClearErrors() *Validator {
	v.errors.Clear()
	return v
}

// HasErrors 是否存在错误
func (v *Validator) HasErrors() bool {
	return !v.errors.IsEmpty()
}

// ErrorEntries 按顺序返回原始错误记录
func (v *Validator) ErrorEntries() []ErrorEntry {
	return v.errors.Entries()
}

// Renderer 基于当前语言包、自定义模板和标记名的渲染器
func (v *Validator) Renderer() *Renderer {
	return NewRenderer(v.pack, v.templates, v.labels)
}

// Messages 按顺序渲染错误消息
func (v *Validator) Messages() Messages {
	return v.Renderer().RenderAll(v.errors.Entries())
}

// JSON 错误消息的 JSON 对象
func (v *Validator) JSON() ([]byte, error) {
	return v.Messages().JSON()
}

// XML 错误消息的 XML 文档
func (v *Validator) XML() ([]byte, error) {
	return v.Messages().XML()
}

// GetErrors 按指定格式输出错误
// FormatMapping 返回 Messages，FormatJSON / FormatXML 返回 []byte
func (v *Validator) GetErrors(format Format) (any, error) {
	switch format {
	case FormatMapping:
		return v.Messages(), nil
	case FormatJSON:
		return v.JSON()
	case FormatXML:
		return v.XML()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Err 没有错误时返回 nil，否则返回渲染后的 Messages
func (v *Validator) Err() error {
	if v.errors.IsEmpty() {
		return nil
	}
	return v.Messages()
}
