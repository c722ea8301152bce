package validator

// ErrorEntry 单个字段的错误记录
type ErrorEntry struct {
	// Field 错误键（去掉末尾 "[]" 的字段名）
	Field string
	// Declared 声明规则时使用的字段名
	Declared string
	// Identifier 错误标识，空字符串表示没有标识（匿名规则）
	Identifier string
	// Params 第 0 个是待验证值，之后依次是声明的规则参数
	Params []any
}

// Value 返回待验证值
func (e ErrorEntry) Value() any {
	if len(e.Params) == 0 {
		return nil
	}
	return e.Params[0]
}

// RuleParams 返回声明的规则参数（不含待验证值）
func (e ErrorEntry) RuleParams() []any {
	if len(e.Params) <= 1 {
		return nil
	}
	return e.Params[1:]
}

// ErrorCollector 错误收集器
// 每个字段至多一条记录，按首次写入的顺序输出
// 非线程安全，归属于单个验证器
type ErrorCollector struct {
	order   []string
	entries map[string]ErrorEntry
}

// NewErrorCollector 创建错误收集器
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		entries: make(map[string]ErrorEntry),
	}
}

// Record 写入字段错误，同一字段再次写入时覆盖内容但保留原位置
func (c *ErrorCollector) Record(entry ErrorEntry) {
	if _, exists := c.entries[entry.Field]; !exists {
		c.order = append(c.order, entry.Field)
	}
	c.entries[entry.Field] = entry
}

// RecordIfAbsent 字段尚无错误时写入，返回是否写入
func (c *ErrorCollector) RecordIfAbsent(entry ErrorEntry) bool {
	if _, exists := c.entries[entry.Field]; exists {
		return false
	}
	c.Record(entry)
	return true
}

// Get 获取字段错误
func (c *ErrorCollector) Get(field string) (ErrorEntry, bool) {
	entry, ok := c.entries[field]
	return entry, ok
}

// Has 字段是否有错误
func (c *ErrorCollector) Has(field string) bool {
	_, ok := c.entries[field]
	return ok
}

// Len 错误数量
func (c *ErrorCollector) Len() int {
	return len(c.order)
}

// IsEmpty 是否没有错误
func (c *ErrorCollector) IsEmpty() bool {
	return len(c.order) == 0
}

// Entries 按写入顺序返回全部错误
func (c *ErrorCollector) Entries() []ErrorEntry {
	out := make([]ErrorEntry, 0, len(c.order))
	for _, field := range c.order {
		out = append(out, c.entries[field])
	}
	return out
}

// Clear 清空错误，用于同一验证器的多次验证
func (c *ErrorCollector) Clear() {
	for i := range c.order {
		c.order[i] = ""
	}
	c.order = c.order[:0]
	c.entries = make(map[string]ErrorEntry)
}

// entryReporter 匿名规则使用的 Reporter，登记到当前字段
type entryReporter struct {
	collector *ErrorCollector
	field     string
	declared  string
	value     any
	reported  bool
}

// Report 实现 Reporter 接口
// 字段已有错误时保留原记录，与规则失败时的登记方式一致
func (r *entryReporter) Report(identifier string, params ...any) {
	r.collector.RecordIfAbsent(ErrorEntry{
		Field:      r.field,
		Declared:   r.declared,
		Identifier: identifier,
		Params:     withSubject(r.value, params),
	})
	r.reported = true
}

// withSubject 把待验证值放到参数最前面
func withSubject(value any, params []any) []any {
	out := make([]any, 0, len(params)+1)
	out = append(out, value)
	return append(out, params...)
}
