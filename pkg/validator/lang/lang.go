// Package lang 默认错误语言包
//
// 语言包是规则标识到消息模板的扁平映射，模板中可使用占位符：
//   - :field   字段的人性化标记名
//   - :param   待验证值
//   - :paramN  第 N 个规则参数（N 从 1 开始）
package lang

import "strings"

// 语言包名称
const (
	NameZhCN = "zh-CN"
	NameEnUS = "en-US"
)

// Pack 语言包：规则标识 -> 消息模板
type Pack map[string]string

// Template 查找规则标识对应的模板
func (p Pack) Template(identifier string) (string, bool) {
	if p == nil {
		return "", false
	}
	tpl, ok := p[identifier]
	return tpl, ok
}

// Clone 复制语言包
func (p Pack) Clone() Pack {
	out := make(Pack, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge 返回合并后的新语言包，other 中的条目覆盖 p 中的同名条目
func (p Pack) Merge(other Pack) Pack {
	out := p.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ZhCN 简体中文语言包（默认）
func ZhCN() Pack {
	return Pack{
		"required":     ":field不能为空",
		"pattern":      ":field不能匹配需要的格式",
		"rangelength":  ":field长度必须介于:param1和:param2之间",
		"minlength":    ":field长度至少:param1个字符",
		"maxlength":    ":field长度不能超过:param1个字符",
		"exactlength":  ":field长度必须是:param1个字符",
		"equalto":      ":field必须等于:param1",
		"email":        ":field必须是email地址",
		"url":          ":field必须是一个url",
		"ip":           ":field必须是一个ip地址",
		"phone":        ":field必须是一个合法电话号码",
		"date":         ":field必须是一个日期",
		"number":       ":field必须是数字",
		"digits":       ":field必须是整数",
		"decimal":      ":field小数位数必须是:param1位",
		"range":        ":field值必须在:param1和:param2之间",
		"min":          ":field值必须大于等于:param1",
		"max":          ":field值必须小于等于:param1",
		"color":        ":field必须是一个有效颜色值",
		"inarray":      ":field不符合选值范围",
		"alpha":        ":field只能包含字母",
		"alphanumeric": ":field只能包含字母和数字",
		"alphadash":    ":field只能包含字母、数字、下划线和中划线",
	}
}

// EnUS 英文语言包
func EnUS() Pack {
	return Pack{
		"required":     ":field must not be empty",
		"pattern":      ":field does not match the required format",
		"rangelength":  ":field must be between :param1 and :param2 characters long",
		"minlength":    ":field must be at least :param1 characters long",
		"maxlength":    ":field must not exceed :param1 characters",
		"exactlength":  ":field must be exactly :param1 characters long",
		"equalto":      ":field must equal :param1",
		"email":        ":field must be an email address",
		"url":          ":field must be a url",
		"ip":           ":field must be an ip address",
		"phone":        ":field must be a valid phone number",
		"date":         ":field must be a date",
		"number":       ":field must be a number",
		"digits":       ":field must be an integer",
		"decimal":      ":field must have :param1 decimal places",
		"range":        ":field must be between :param1 and :param2",
		"min":          ":field must be greater than or equal to :param1",
		"max":          ":field must be less than or equal to :param1",
		"color":        ":field must be a valid color",
		"inarray":      ":field is not an allowed value",
		"alpha":        ":field may only contain letters",
		"alphanumeric": ":field may only contain letters and numbers",
		"alphadash":    ":field may only contain letters, numbers, underscores and dashes",
	}
}

// ByName 按名称获取内置语言包，名称不区分大小写，接受 zh/en 简写
func ByName(name string) (Pack, bool) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "zh-cn", "zh":
		return ZhCN(), true
	case "en-us", "en":
		return EnUS(), true
	}
	return nil, false
}
