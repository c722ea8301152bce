// Package ginx 将 map 规则验证器接入 gin
// 负责从请求中组装待验证数据，以及按客户端协商的格式输出错误消息；
// 验证器本身不读取任何请求数据
package ginx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"katydid-common-validation/pkg/validator"
)

// ContextKey 中间件把验证通过的验证器保存到 gin.Context 的键
const ContextKey = "katydid.validator"

// arraySuffix 表单中数组形式的键名后缀
const arraySuffix = "[]"

// BuildFunc 为当前请求创建并声明好规则的验证器，返回 nil 表示该请求不需要验证
type BuildFunc func(c *gin.Context) *validator.Validator

// Input 从请求中组装待验证数据
// 优先级从低到高：路径参数 -> 请求体（表单或 JSON 对象）-> 查询参数
// 表单与查询参数中以 "[]" 结尾的键去掉后缀，值为全部取值组成的 []any；
// 其余重复的键取最后一个值
func Input(c *gin.Context) (map[string]any, error) {
	data := make(map[string]any)

	for _, p := range c.Params {
		data[p.Key] = p.Value
	}

	if err := readBody(c, data); err != nil {
		return nil, err
	}

	mergeValues(data, c.Request.URL.Query())
	return data, nil
}

func readBody(c *gin.Context, data map[string]any) error {
	if c.Request.Body == nil || c.Request.Method == http.MethodGet {
		return nil
	}

	switch c.ContentType() {
	case binding.MIMEJSON:
		var body map[string]any
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("ginx: read json body: %w", err)
		}
		for k, v := range body {
			data[k] = v
		}
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return fmt.Errorf("ginx: read multipart form: %w", err)
		}
		mergeValues(data, form.Value)
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return fmt.Errorf("ginx: read form: %w", err)
		}
		mergeValues(data, c.Request.PostForm)
	}
	return nil
}

func mergeValues(data map[string]any, values url.Values) {
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if name, ok := strings.CutSuffix(key, arraySuffix); ok && name != "" {
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			data[name] = list
			continue
		}
		data[key] = vals[len(vals)-1]
	}
}

// Check 用当前请求的数据执行验证
func Check(c *gin.Context, v *validator.Validator) (bool, error) {
	data, err := Input(c)
	if err != nil {
		return false, err
	}
	return v.SetData(data).Check()
}

// AbortWithErrors 以 422 中止请求并输出错误消息
// 根据 Accept 头协商 JSON 或 XML，默认 JSON
func AbortWithErrors(c *gin.Context, v *validator.Validator) {
	var (
		body        []byte
		err         error
		contentType string
	)

	switch c.NegotiateFormat(binding.MIMEJSON, binding.MIMEXML, binding.MIMEXML2) {
	case binding.MIMEXML, binding.MIMEXML2:
		body, err = v.XML()
		contentType = "application/xml; charset=utf-8"
	default:
		body, err = v.JSON()
		contentType = "application/json; charset=utf-8"
	}
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusUnprocessableEntity, contentType, body)
	c.Abort()
}

// Middleware 请求验证中间件
// 数据无法读取时返回 400，规则配置错误时返回 500，验证失败时返回 422；
// 验证通过后验证器保存在 ContextKey 下，可用 FromContext 取出
func Middleware(build BuildFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := build(c)
		if v == nil {
			c.Next()
			return
		}

		data, err := Input(c)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ok, err := v.SetData(data).Check()
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		if !ok {
			AbortWithErrors(c, v)
			return
		}

		c.Set(ContextKey, v)
		c.Next()
	}
}

// FromContext 取出中间件保存的验证器
func FromContext(c *gin.Context) (*validator.Validator, bool) {
	value, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	v, ok := value.(*validator.Validator)
	return v, ok
}
