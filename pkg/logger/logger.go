package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志输出格式
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug / info / warn / error
	Level string `mapstructure:"level"`
	// Format 输出格式：json / console
	Format string `mapstructure:"format"`
	// File 文件输出，Path 为空时只输出到标准输出
	File FileConfig `mapstructure:"file"`
}

// FileConfig 日志文件滚动配置
type FileConfig struct {
	Path string `mapstructure:"path"`
	// MaxSize 单个文件最大体积（MB）
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups 保留的旧文件数量
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAge 旧文件保留天数
	MaxAge   int  `mapstructure:"max_age"`
	Compress bool `mapstructure:"compress"`
}

// DefaultConfig 默认配置：info 级别，JSON 格式，只输出到标准输出
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatJSON,
		File: FileConfig{
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// Validate 检查配置
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logger: invalid level %q: %w", c.Level, err)
	}
	switch strings.ToLower(c.Format) {
	case FormatJSON, FormatConsole:
	default:
		return fmt.Errorf("logger: invalid format %q", c.Format)
	}
	if c.File.Path != "" && (c.File.MaxSize < 0 || c.File.MaxBackups < 0 || c.File.MaxAge < 0) {
		return fmt.Errorf("logger: file rotation limits must not be negative")
	}
	return nil
}

// New 根据配置创建 zap.Logger
// 标准输出之外，配置了文件路径时同时写入由 lumberjack 滚动的文件
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := zapcore.ParseLevel(cfg.Level)
	encoder := newEncoder(cfg.Format)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if cfg.File.Path != "" {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(newRotator(cfg.File)), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if strings.ToLower(format) == FormatConsole {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

func newRotator(cfg FileConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}
