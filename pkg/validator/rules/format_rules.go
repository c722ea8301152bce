package rules

import (
	"net"
	"net/mail"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const maxEmailLength = 254

var (
	// formatValidate 复用 go-playground/validator 的格式校验标签
	formatValidate     *validator.Validate
	formatValidateOnce sync.Once

	phoneRegex = regexp.MustCompile(`^(\d{11}|\d{7,8}|\d{3,4}-\d{7,8}|\d{3,4}-\d{7,8}-\d{1,4}|\d{7,8}-\d{1,4}|400(-\d{3,4}){2})$`)
	digitRegex = regexp.MustCompile(`^[0-9]+$`)
	colorRegex = regexp.MustCompile(`(?i)^#?[0-9a-f]{3}(?:[0-9a-f]{3})?$`)

	reservedV4 = []netip.Prefix{
		netip.MustParsePrefix("0.0.0.0/8"),
		netip.MustParsePrefix("169.254.0.0/16"),
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("240.0.0.0/4"),
	}

	dateLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
		"2006-1-2",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"2006/1/2",
		"2006/01/02 15:04:05",
		"01/02/2006",
		"1/2/2006",
		"02 Jan 2006",
		"2 January 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"15:04",
		"15:04:05",
		time.RFC1123,
		time.RFC1123Z,
		time.RFC822,
		time.RFC822Z,
		time.RFC850,
		time.ANSIC,
		time.UnixDate,
	}
)

func playground() *validator.Validate {
	formatValidateOnce.Do(func() {
		formatValidate = validator.New()
	})
	return formatValidate
}

// Email 邮箱地址
// 可选参数 strict 为 true 时，额外要求地址能被 RFC 5322 解析且不含显示名
func Email(value any, params ...any) (bool, error) {
	s, ok := toText(value)
	if !ok || len(s) > maxEmailLength {
		return false, nil
	}
	if playground().Var(s, "email") != nil {
		return false, nil
	}
	if boolParam(params, 0, false) {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s || addr.Name != "" {
			return false, nil
		}
	}
	return true, nil
}

// URL 带协议头的 URL，主机名的顶级域必须以字母开头
func URL(value any, _ ...any) (bool, error) {
	s, ok := toText(value)
	if !ok || !strings.Contains(s, "://") {
		return false, nil
	}
	if playground().Var(s, "url") != nil {
		return false, nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false, nil
	}
	host := u.Hostname()
	if host == "" {
		return false, nil
	}
	if net.ParseIP(host) != nil {
		return true, nil
	}
	if len(host) > 253 {
		return false, nil
	}
	tld := host[strings.LastIndexByte(host, '.')+1:]
	if tld == "" {
		return false, nil
	}
	c := tld[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'), nil
}

// IP IPv4/IPv6 地址，不接受保留地址段
// 可选参数 allowPrivate 为 false 时同时拒绝私有地址段
func IP(value any, params ...any) (bool, error) {
	s, ok := toText(value)
	if !ok || playground().Var(s, "ip") != nil {
		return false, nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false, nil
	}
	addr = addr.Unmap()

	if addr.IsUnspecified() || addr.IsLoopback() || addr.IsLinkLocalUnicast() {
		return false, nil
	}
	if addr.Is4() {
		for _, prefix := range reservedV4 {
			if prefix.Contains(addr) {
				return false, nil
			}
		}
	}
	if !boolParam(params, 0, true) && addr.IsPrivate() {
		return false, nil
	}
	return true, nil
}

// Phone 电话号码
// 带数字参数时检查是否为指定长度的纯数字；否则匹配 11 位手机号、
// 区号-直拨号-分机号以及 400 号码等格式
func Phone(value any, params ...any) (bool, error) {
	s, ok := toText(value)
	if !ok {
		return false, nil
	}
	if p, exists := param(params, 0); exists && p != nil {
		if length, isNum := toNumber(p); isNum {
			return digitRegex.MatchString(s) && len(s) == int(length), nil
		}
	}
	return phoneRegex.MatchString(s), nil
}

// Date 可解析的日期时间字符串，或 time.Time 值
func Date(value any, _ ...any) (bool, error) {
	switch v := value.(type) {
	case time.Time:
		return !v.IsZero(), nil
	case *time.Time:
		return v != nil && !v.IsZero(), nil
	}
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, nil
		}
	}
	return false, nil
}

// Color 十六进制颜色值，# 可省略，支持 3 位简写
func Color(value any, _ ...any) (bool, error) {
	return matchText(colorRegex, value), nil
}
