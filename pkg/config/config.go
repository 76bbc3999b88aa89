// Package config loads boxtree settings from an optional YAML file and
// BOXTREE_* environment variables on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOXTREE_VIEWPORT_WIDTH.
const EnvPrefix = "BOXTREE"

// Config is the full configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Viewport  ViewportConfig  `mapstructure:"viewport" yaml:"viewport"`
	Traversal TraversalConfig `mapstructure:"traversal" yaml:"traversal"`
	Render    RenderConfig    `mapstructure:"render" yaml:"render"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	// File, when set, adds a JSON log file rotated by size.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// ViewportConfig is the initial containing block the cascade resolves
// viewport units against.
type ViewportConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// TraversalConfig bounds box-construction passes.
type TraversalConfig struct {
	MaxDepth int  `mapstructure:"max_depth" yaml:"max_depth"`
	Strict   bool `mapstructure:"strict" yaml:"strict"`
}

// RenderConfig sizes the schematic painter.
type RenderConfig struct {
	RowHeight float64 `mapstructure:"row_height" yaml:"row_height"`
	Indent    float64 `mapstructure:"indent" yaml:"indent"`
	Width     int     `mapstructure:"width" yaml:"width"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)

	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)

	v.SetDefault("traversal.max_depth", 512)
	v.SetDefault("traversal.strict", false)

	v.SetDefault("render.row_height", 18)
	v.SetDefault("render.indent", 16)
	v.SetDefault("render.width", 640)
}

// NewDefaultConfig returns the configuration used when there is no file and
// no environment override.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads configuration into v and returns it validated. An explicit file
// must exist; without one, ./boxtree.yaml is used when present.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("boxtree")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates whatever v holds.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport.width and viewport.height must be positive")
	}
	if c.Traversal.MaxDepth <= 0 {
		return fmt.Errorf("traversal.max_depth must be a positive integer")
	}
	if c.Render.RowHeight <= 0 || c.Render.Indent < 0 || c.Render.Width <= 0 {
		return fmt.Errorf("render.row_height and render.width must be positive, render.indent non-negative")
	}
	return nil
}
