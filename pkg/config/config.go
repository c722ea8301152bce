// Package config 加载验证器与日志的配置
// 配置来源优先级从低到高：默认值 -> 配置文件（yaml/json/toml）-> KATYDID_ 前缀的环境变量
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"katydid-common-validation/pkg/logger"
	"katydid-common-validation/pkg/validator"
	"katydid-common-validation/pkg/validator/lang"
)

// EnvPrefix 环境变量前缀，例如 KATYDID_VALIDATOR_LANGUAGE
const EnvPrefix = "KATYDID"

// ErrInvalidConfig 配置值不合法
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config 全部配置
type Config struct {
	Validator ValidatorConfig `mapstructure:"validator"`
	Log       logger.Config   `mapstructure:"log"`
}

// ValidatorConfig 验证器默认行为
type ValidatorConfig struct {
	// BreakOnFirstFailure Check 在首个字段失败后是否停止
	BreakOnFirstFailure bool `mapstructure:"break_on_first_failure"`
	// Language 错误消息语言包：zh-CN / en-US
	Language string `mapstructure:"language"`
	// TruncateExtraRuleElements 超过两个元素的规则列表是否截断
	TruncateExtraRuleElements bool `mapstructure:"truncate_extra_rule_elements"`
}

// Default 默认配置
func Default() Config {
	return Config{
		Validator: ValidatorConfig{
			BreakOnFirstFailure: true,
			Language:            lang.NameZhCN,
		},
		Log: logger.DefaultConfig(),
	}
}

// Load 加载配置，path 为空时只使用默认值和环境变量
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults 注册全部键的默认值，AutomaticEnv 只会覆盖 viper 已知的键
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("validator.break_on_first_failure", cfg.Validator.BreakOnFirstFailure)
	v.SetDefault("validator.language", cfg.Validator.Language)
	v.SetDefault("validator.truncate_extra_rule_elements", cfg.Validator.TruncateExtraRuleElements)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file.path", cfg.Log.File.Path)
	v.SetDefault("log.file.max_size", cfg.Log.File.MaxSize)
	v.SetDefault("log.file.max_backups", cfg.Log.File.MaxBackups)
	v.SetDefault("log.file.max_age", cfg.Log.File.MaxAge)
	v.SetDefault("log.file.compress", cfg.Log.File.Compress)
}

// Validate 检查配置
func (c Config) Validate() error {
	if _, ok := lang.ByName(c.Validator.Language); !ok {
		return fmt.Errorf("%w: unknown validator.language %q", ErrInvalidConfig, c.Validator.Language)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ValidatorOptions 转为验证器配置项，logger 为 nil 时不输出日志
func (c Config) ValidatorOptions(log *zap.Logger) ([]validator.Option, error) {
	pack, ok := lang.ByName(c.Validator.Language)
	if !ok {
		return nil, fmt.Errorf("%w: unknown validator.language %q", ErrInvalidConfig, c.Validator.Language)
	}

	opts := []validator.Option{
		validator.WithLanguage(pack),
		validator.WithBreakOnFirstFailure(c.Validator.BreakOnFirstFailure),
		validator.WithRuleTruncation(c.Validator.TruncateExtraRuleElements),
	}
	if log != nil {
		opts = append(opts, validator.WithLogger(log.Named("validator")))
	}
	return opts, nil
}
