package validator

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"

	"katydid-common-validation/pkg/validator/lang"
	"katydid-common-validation/pkg/validator/rules"
)

// Format 错误输出格式
type Format int

const (
	// FormatMapping 字段 -> 消息的有序映射（Messages）
	FormatMapping Format = iota
	// FormatJSON JSON 对象
	FormatJSON
	// FormatXML 以 <error> 为根元素的 XML 文档
	FormatXML
)

// xmlRootElement XML 输出的根元素名
const xmlRootElement = "error"

// String 实现 fmt.Stringer 接口
func (f Format) String() string {
	switch f {
	case FormatMapping:
		return "mapping"
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat 解析输出格式名（不区分大小写），array 为 mapping 的别名
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mapping", "array", "map":
		return FormatMapping, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Message 渲染后的单个字段消息
type Message struct {
	Field string
	Text  string
}

// Messages 按错误写入顺序排列的字段消息
type Messages []Message

// Get 获取字段消息
func (m Messages) Get(field string) (string, bool) {
	for _, msg := range m {
		if msg.Field == field {
			return msg.Text, true
		}
	}
	return "", false
}

// Fields 按顺序返回字段名
func (m Messages) Fields() []string {
	fields := make([]string, len(m))
	for i, msg := range m {
		fields[i] = msg.Field
	}
	return fields
}

// Map 转为无序 map
func (m Messages) Map() map[string]string {
	out := make(map[string]string, len(m))
	for _, msg := range m {
		out[msg.Field] = msg.Text
	}
	return out
}

// Error 实现 error 接口
func (m Messages) Error() string {
	if len(m) == 0 {
		return "validation passed: no errors"
	}

	sb := acquireBuffer()
	defer releaseBuffer(sb)

	for i, msg := range m {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(msg.Field)
		sb.WriteString(": ")
		sb.WriteString(msg.Text)
	}
	return sb.String()
}

// MarshalJSON 输出为保持字段顺序的 JSON 对象
func (m Messages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, msg := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(msg.Field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(msg.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalXML 输出为 <error> 根元素，每个字段一个子元素
func (m Messages) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	root := xml.StartElement{Name: xml.Name{Local: xmlRootElement}}
	if err := e.EncodeToken(root); err != nil {
		return err
	}
	for _, msg := range m {
		if !isXMLName(msg.Field) {
			return fmt.Errorf("%w: %q", ErrInvalidElementName, msg.Field)
		}
		if err := e.EncodeElement(msg.Text, xml.StartElement{Name: xml.Name{Local: msg.Field}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(root.End())
}

// JSON 序列化为 JSON 对象
func (m Messages) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// XML 序列化为带声明头、缩进格式的 XML 文档
func (m Messages) XML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// isXMLName 字段名能否作为 XML 元素名（不含命名空间前缀）
func isXMLName(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if first != '_' && !unicode.IsLetter(first) {
		return false
	}
	for _, r := range name {
		if r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// Renderer 错误消息渲染器
// 模板优先级：字段自定义模板 -> 语言包 -> 原始字段名
type Renderer struct {
	pack      lang.Pack
	templates map[string]map[string]string
	labels    map[string]string
}

// NewRenderer 创建渲染器
// templates: 字段 -> 错误标识 -> 模板；labels: 字段 -> 人性化标记名
func NewRenderer(pack lang.Pack, templates map[string]map[string]string, labels map[string]string) *Renderer {
	return &Renderer{
		pack:      pack,
		templates: templates,
		labels:    labels,
	}
}

// Template 查找错误记录使用的模板
func (r *Renderer) Template(entry ErrorEntry) string {
	for _, field := range [...]string{entry.Field, entry.Declared} {
		if field == "" {
			continue
		}
		if tpl, ok := r.templates[field][entry.Identifier]; ok {
			return tpl
		}
	}
	if entry.Identifier != "" {
		if tpl, ok := r.pack.Template(entry.Identifier); ok {
			return tpl
		}
	}
	return entry.Field
}

// Label 字段的人性化标记名
func (r *Renderer) Label(entry ErrorEntry) string {
	for _, field := range [...]string{entry.Declared, entry.Field} {
		if label, ok := r.labels[field]; ok && field != "" {
			return label
		}
	}
	return DefaultLabel(entry.Field)
}

// Render 渲染单条错误
func (r *Renderer) Render(entry ErrorEntry) string {
	return Interpolate(r.Template(entry), r.Label(entry), entry.Params)
}

// RenderAll 按顺序渲染全部错误
func (r *Renderer) RenderAll(entries []ErrorEntry) Messages {
	out := make(Messages, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Message{Field: entry.Field, Text: r.Render(entry)})
	}
	return out
}

// Interpolate 模板插值
// 单遍扫描、只做字符串替换：
//   - :field  -> label
//   - :paramN -> params[N]（N 为 1~2 位数字）
//   - :param  -> params[0]（待验证值）
//
// 替换进来的内容不会再次参与插值，越界的下标替换为空字符串
func Interpolate(template, label string, params []any) string {
	if !strings.Contains(template, ":") {
		return template
	}

	sb := acquireBuffer()
	defer releaseBuffer(sb)
	sb.Grow(len(template) + len(label))

	for i := 0; i < len(template); {
		if template[i] != ':' {
			sb.WriteByte(template[i])
			i++
			continue
		}

		rest := template[i+1:]
		switch {
		case strings.HasPrefix(rest, "field"):
			sb.WriteString(label)
			i += 1 + len("field")
		case strings.HasPrefix(rest, "param"):
			j := i + 1 + len("param")
			index, digits := 0, 0
			for j < len(template) && digits < 2 && template[j] >= '0' && template[j] <= '9' {
				index = index*10 + int(template[j]-'0')
				j++
				digits++
			}
			sb.WriteString(paramText(params, index))
			i = j
		default:
			sb.WriteByte(':')
			i++
		}
	}
	return sb.String()
}

func paramText(params []any, index int) string {
	if index < 0 || index >= len(params) {
		return ""
	}
	return stringify(params[index])
}

// stringify 参数转为文本，缺失值与 nil 为空字符串，序列用逗号连接
func stringify(value any) string {
	if value == nil || rules.IsMissing(value) {
		return ""
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}
