package rules

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// param 取第 i 个参数
func param(params []any, i int) (any, bool) {
	if i < 0 || i >= len(params) {
		return nil, false
	}
	return params[i], true
}

// intParam 取第 i 个参数并转换为整数，缺失时使用 def
func intParam(name string, params []any, i int, def int, required bool) (int, error) {
	p, ok := param(params, i)
	if !ok || p == nil {
		if required {
			return 0, fmt.Errorf("rules: %s requires parameter #%d", name, i+1)
		}
		return def, nil
	}
	n, err := cast.ToIntE(p)
	if err != nil {
		return 0, fmt.Errorf("rules: %s parameter #%d must be an integer, got %T: %w", name, i+1, p, err)
	}
	return n, nil
}

// numberParam 取第 i 个参数并转换为浮点数
func numberParam(name string, params []any, i int) (float64, error) {
	p, ok := param(params, i)
	if !ok {
		return 0, fmt.Errorf("rules: %s requires parameter #%d", name, i+1)
	}
	f, ok := toNumber(p)
	if !ok {
		return 0, fmt.Errorf("rules: %s parameter #%d must be numeric, got %T", name, i+1, p)
	}
	return f, nil
}

// boolParam 取第 i 个参数并转换为布尔值，缺失时使用 def
func boolParam(params []any, i int, def bool) bool {
	p, ok := param(params, i)
	if !ok || p == nil {
		return def
	}
	b, err := cast.ToBoolE(p)
	if err != nil {
		return def
	}
	return b
}

// toNumber 将数值类型或数字字符串转换为 float64
// 布尔值、nil、缺失值、NaN 和无穷大（含 "Inf"、"Infinity" 文本）不视为数字
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil, bool, missing:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		value = s
	}
	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isNumeric 是否为 Go 数值类型
func isNumeric(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// toText 将字符串或数值转换为文本，其他类型返回 false
func toText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		if IsMissing(v) {
			return "", false
		}
	}
	if !isNumeric(value) {
		return "", false
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", false
	}
	return s, true
}

// size 字符串按字符（码点）计数，切片、数组、map 按元素计数
func size(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	if value == nil || IsMissing(value) {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// toSlice 将切片或数组展开为 []any
func toSlice(value any) ([]any, bool) {
	if list, ok := value.([]any); ok {
		return list, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := value.([]byte); isBytes {
			return nil, false
		}
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}
		return list, true
	}
	return nil, false
}
