package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestConfig_Validate 测试配置检查
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "默认配置", mutate: func(*Config) {}},
		{name: "console 格式", mutate: func(c *Config) { c.Format = "Console" }},
		{name: "非法级别", mutate: func(c *Config) { c.Level = "verbose" }, wantErr: true},
		{name: "非法格式", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "负数滚动参数", mutate: func(c *Config) { c.File.Path = "x.log"; c.File.MaxAge = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestNew_File 测试写入滚动文件
func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validator.log")
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.File.Path = path

	log, err := New(cfg)
	require.NoError(t, err)
	log.Debug("validation rule failed", zap.String("field", "username"))
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "debug", record["level"])
	assert.Equal(t, "validation rule failed", record["msg"])
	assert.Equal(t, "username", record["field"])
}

// TestNew_Level 测试低于配置级别的日志不输出
func TestNew_Level(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validator.log")
	cfg := DefaultConfig()
	cfg.Level = "warn"
	cfg.File.Path = path

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("ignored")
	log.Warn("kept")
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ignored")
	assert.Contains(t, string(raw), "kept")
}

// TestNew_Invalid 测试非法配置
func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Level: "nope", Format: FormatJSON})
	assert.Error(t, err)
}
