package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"katydid-common-validation/pkg/validator"
	"katydid-common-validation/pkg/validator/lang"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoad 测试配置加载
func TestLoad(t *testing.T) {
	t.Run("只有默认值", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml 文件", func(t *testing.T) {
		path := writeFile(t, "config.yaml", `
validator:
  break_on_first_failure: false
  language: en-US
  truncate_extra_rule_elements: true
log:
  level: debug
  format: console
  file:
    path: /tmp/validator.log
    max_size: 10
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Validator.BreakOnFirstFailure)
		assert.Equal(t, "en-US", cfg.Validator.Language)
		assert.True(t, cfg.Validator.TruncateExtraRuleElements)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "/tmp/validator.log", cfg.Log.File.Path)
		assert.Equal(t, 10, cfg.Log.File.MaxSize)
		// 文件中没有的键保留默认值
		assert.Equal(t, 7, cfg.Log.File.MaxBackups)
	})

	t.Run("环境变量覆盖文件", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"validator": {"language": "en-US"}}`)
		t.Setenv("KATYDID_VALIDATOR_LANGUAGE", "zh")
		t.Setenv("KATYDID_VALIDATOR_BREAK_ON_FIRST_FAILURE", "false")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "zh", cfg.Validator.Language)
		assert.False(t, cfg.Validator.BreakOnFirstFailure)
	})

	t.Run("非法语言", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "validator:\n  language: fr\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("非法日志级别", func(t *testing.T) {
		t.Setenv("KATYDID_LOG_LEVEL", "loud")
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

// TestValidatorOptions 测试配置转为验证器配置项
func TestValidatorOptions(t *testing.T) {
	cfg := Default()
	cfg.Validator.Language = lang.NameEnUS
	cfg.Validator.BreakOnFirstFailure = false
	cfg.Validator.TruncateExtraRuleElements = true

	opts, err := cfg.ValidatorOptions(zap.NewNop())
	require.NoError(t, err)

	v := validator.New(map[string]any{}, opts...)
	// 开启截断后多余元素被忽略
	require.NoError(t, v.AddRule("a", []any{"required", nil, "extra"}))
	require.NoError(t, v.AddRule("b", "required"))

	// 不中断：两个字段都被验证
	ok, err := v.Check()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, validator.Messages{
		{Field: "a", Text: "a must not be empty"},
		{Field: "b", Text: "b must not be empty"},
	}, v.Messages())

	cfg.Validator.Language = "klingon"
	_, err = cfg.ValidatorOptions(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
