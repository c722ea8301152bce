package rules

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
)

var numberRegex = regexp.MustCompile(`^-?(?:[0-9]+\.?[0-9]*|\.[0-9]+)$`)

// Number 数字（允许负号和小数点）
func Number(value any, _ ...any) (bool, error) {
	return matchText(numberRegex, value), nil
}

// Digits 非负整数（仅 ASCII 数字）
func Digits(value any, _ ...any) (bool, error) {
	return matchText(digitRegex, value), nil
}

// Decimal 小数格式
// places 小数位数（默认 2），digits 整数位数（可选，不指定时不限）
func Decimal(value any, params ...any) (bool, error) {
	places, err := intParam(NameDecimal, params, 0, 2, false)
	if err != nil {
		return false, err
	}
	digits, err := intParam(NameDecimal, params, 1, 0, false)
	if err != nil {
		return false, err
	}
	if places < 0 {
		return false, fmt.Errorf("rules: %s places cannot be negative", NameDecimal)
	}

	intPart := "+"
	if digits > 0 {
		intPart = "{" + strconv.Itoa(digits) + "}"
	}
	re, err := compilePattern(`^[+-]?[0-9]` + intPart + `\.[0-9]{` + strconv.Itoa(places) + `}$`)
	if err != nil {
		return false, err
	}
	return matchText(re, value), nil
}

// Range 数值介于 [min, max]
func Range(value any, params ...any) (bool, error) {
	lo, err := numberParam(NameRange, params, 0)
	if err != nil {
		return false, err
	}
	hi, err := numberParam(NameRange, params, 1)
	if err != nil {
		return false, err
	}
	n, ok := toNumber(value)
	if !ok {
		return false, nil
	}
	return n >= lo && n <= hi, nil
}

// Min 数值不小于 min
func Min(value any, params ...any) (bool, error) {
	lo, err := numberParam(NameMin, params, 0)
	if err != nil {
		return false, err
	}
	n, ok := toNumber(value)
	if !ok {
		return false, nil
	}
	return n >= lo, nil
}

// Max 数值不大于 max
func Max(value any, params ...any) (bool, error) {
	hi, err := numberParam(NameMax, params, 0)
	if err != nil {
		return false, err
	}
	n, ok := toNumber(value)
	if !ok {
		return false, nil
	}
	return n <= hi, nil
}

// InArray 值属于候选集合
// 单个切片参数视为候选集合本身，否则全部参数作为候选值；
// 双方都是数字（含数字字符串）时按数值比较，其余按值严格比较
func InArray(value any, params ...any) (bool, error) {
	if len(params) == 0 {
		return false, fmt.Errorf("rules: %s requires candidate values", NameInArray)
	}
	candidates := params
	if len(params) == 1 {
		if list, ok := toSlice(params[0]); ok {
			candidates = list
		}
	}

	for _, c := range candidates {
		if looseEqual(value, c) {
			return true, nil
		}
	}
	return false, nil
}

func looseEqual(a, b any) bool {
	if na, ok := toNumber(a); ok {
		if nb, ok := toNumber(b); ok {
			return na == nb
		}
	}
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
