package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// errNilSource 数据源为 nil
var errNilSource = errors.New("validator: cannot read data from nil")

// DataFromStruct 把结构体转为待验证数据
// 键名取 json 标签（"-" 跳过，没有标签时用字段名），只读取导出字段，不展开嵌套结构体；
// 非结构体（例如 map 或实现了 json.Marshaler 的类型）按 JSON 对象转换
func DataFromStruct(s any) (map[string]any, error) {
	if s == nil {
		return nil, errNilSource
	}

	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errNilSource
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return dataFromJSON(s)
	}

	t := v.Type()
	data := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		data[name] = v.Field(i).Interface()
	}
	return data, nil
}

func dataFromJSON(s any) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("validator: marshal data source: %w", err)
	}
	var data map[string]any
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("validator: data source is not an object: %w", err)
	}
	return data, nil
}

// SetStruct 以结构体作为待验证数据，见 DataFromStruct
func (v *Validator) SetStruct(s any) error {
	data, err := DataFromStruct(s)
	if err != nil {
		return err
	}
	v.data = data
	return nil
}
