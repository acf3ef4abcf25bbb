// Package config provides configuration loading for arrowframe.
// Settings come from an optional YAML file and from ARROWFRAME_*
// environment variables; the library itself only consumes the logging
// section, everything else is for embedding applications.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ARROWFRAME"

// Config is the top-level configuration structure
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls the global logger
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Encoding is json or console
	Encoding string `mapstructure:"encoding"`
	// Development enables colored console output and error stacktraces
	Development bool `mapstructure:"development"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Encoding:    "json",
			Development: false,
		},
	}
}

// FromEnv loads the configuration from ARROWFRAME_* environment
// variables on top of the defaults (e.g. ARROWFRAME_LOGGING_LEVEL=debug)
func FromEnv() *Config {
	v := newViper()
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default()
	}
	return &cfg
}

// LoadFile loads the configuration from a YAML file, with environment
// variables taking precedence over file values
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	def := Default()
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.encoding", def.Logging.Encoding)
	v.SetDefault("logging.development", def.Logging.Development)
	return v
}
