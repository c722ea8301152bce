package rules

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
)

var (
	alphaRegex        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashRegex    = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// patternCache 已编译的 pattern 表达式，key: 原始表达式
	patternCache sync.Map
)

// patternDelimiter pattern 表达式可识别的分隔符，其他字符开头的表达式按 RE2 原样编译
const patternDelimiter = '/'

// Required 非空检查
// 缺失、nil、false、空字符串、空切片/map、数值零均视为空
func Required(value any, _ ...any) (bool, error) {
	switch v := value.(type) {
	case nil, missing:
		return false, nil
	case bool:
		return v, nil
	case string:
		return v != "", nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0, nil
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero(), nil
	}
	return true, nil
}

// Pattern 正则匹配
// 参数为 RE2 表达式，也接受 /expr/flags 的分隔符写法（支持 i m s U 标志）
func Pattern(value any, params ...any) (bool, error) {
	p, ok := param(params, 0)
	if !ok {
		return false, fmt.Errorf("rules: %s requires an expression", NamePattern)
	}
	expr, ok := p.(string)
	if !ok {
		return false, fmt.Errorf("rules: %s expression must be a string, got %T", NamePattern, p)
	}
	re, err := compilePattern(expr)
	if err != nil {
		return false, err
	}
	s, ok := toText(value)
	if !ok {
		return false, nil
	}
	return re.MatchString(s), nil
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}

	source, err := translateDelimited(expr)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("rules: invalid %s expression %q: %w", NamePattern, expr, err)
	}

	actual, _ := patternCache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// translateDelimited 将 /expr/flags 形式转换为 RE2 内联标志形式
// 不带分隔符的表达式原样返回
func translateDelimited(expr string) (string, error) {
	if len(expr) < 2 {
		return expr, nil
	}
	if expr[0] != patternDelimiter {
		return expr, nil
	}
	end := strings.LastIndexByte(expr, patternDelimiter)
	if end <= 0 {
		return expr, nil
	}

	body, flags := expr[1:end], expr[end+1:]
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
			inline.WriteRune(f)
		case 'u', 'D':
			// RE2 始终按 UTF-8 匹配，且未开启 m 时 $ 只匹配文本末尾
		default:
			return "", fmt.Errorf("rules: unsupported %s flag %q in %q", NamePattern, f, expr)
		}
	}
	if inline.Len() == 0 {
		return body, nil
	}
	return "(?" + inline.String() + ")" + body, nil
}

// RangeLength 长度介于 [min, max]
func RangeLength(value any, params ...any) (bool, error) {
	lo, err := intParam(NameRangeLength, params, 0, 0, false)
	if err != nil {
		return false, err
	}
	hi, err := intParam(NameRangeLength, params, 1, 0, false)
	if err != nil {
		return false, err
	}
	n, ok := size(value)
	if !ok {
		return false, nil
	}
	return n >= lo && n <= hi, nil
}

// MinLength 长度至少为 n
func MinLength(value any, params ...any) (bool, error) {
	lo, err := intParam(NameMinLength, params, 0, 0, true)
	if err != nil {
		return false, err
	}
	n, ok := size(value)
	if !ok {
		return false, nil
	}
	return n >= lo, nil
}

// MaxLength 长度至多为 n
func MaxLength(value any, params ...any) (bool, error) {
	hi, err := intParam(NameMaxLength, params, 0, 0, true)
	if err != nil {
		return false, err
	}
	n, ok := size(value)
	if !ok {
		return false, nil
	}
	return n <= hi, nil
}

// ExactLength 长度等于 n，或属于给定的长度列表之一
func ExactLength(value any, params ...any) (bool, error) {
	if len(params) == 0 {
		return false, fmt.Errorf("rules: %s requires a length", NameExactLength)
	}
	candidates := params
	if list, ok := toSlice(params[0]); ok && len(params) == 1 {
		candidates = list
	}

	n, ok := size(value)
	if !ok {
		return false, nil
	}
	for i := range candidates {
		want, err := intParam(NameExactLength, candidates, i, 0, true)
		if err != nil {
			return false, err
		}
		if n == want {
			return true, nil
		}
	}
	return false, nil
}

// EqualTo 严格相等（类型与值都相同）
func EqualTo(value any, params ...any) (bool, error) {
	want, ok := param(params, 0)
	if !ok {
		return false, fmt.Errorf("rules: %s requires a value to compare", NameEqualTo)
	}
	return reflect.DeepEqual(value, want), nil
}

// Alpha 只包含 ASCII 字母
func Alpha(value any, _ ...any) (bool, error) {
	return matchText(alphaRegex, value), nil
}

// AlphaNumeric 只包含 ASCII 字母和数字
func AlphaNumeric(value any, _ ...any) (bool, error) {
	return matchText(alphaNumericRegex, value), nil
}

// AlphaDash 只包含 ASCII 字母、数字、下划线和连字符
func AlphaDash(value any, _ ...any) (bool, error) {
	return matchText(alphaDashRegex, value), nil
}

func matchText(re *regexp.Regexp, value any) bool {
	s, ok := toText(value)
	if !ok {
		return false
	}
	return re.MatchString(s)
}
