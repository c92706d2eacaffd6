package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SettingsFileName is the settings file looked up in the working directory
// when no explicit path is given.
const SettingsFileName = "shiftgrid"

// EnvPrefix prefixes environment overrides, e.g. SHIFTGRID_PAGE_SIZE.
const EnvPrefix = "SHIFTGRID"

// Settings are the CLI defaults. Command-line flags override them.
type Settings struct {
	Format   string        `mapstructure:"format"`
	Database string        `mapstructure:"database"`
	Config   string        `mapstructure:"config"`
	PageSize int           `mapstructure:"page_size"`
	Debounce time.Duration `mapstructure:"debounce"`
	Listen   string        `mapstructure:"listen"`
	LogLevel string        `mapstructure:"log_level"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Format:   "text",
		Database: "shiftgrid.db",
		PageSize: 10,
		Debounce: 300 * time.Millisecond,
		Listen:   "127.0.0.1:8080",
		LogLevel: "info",
	}
}

// LoadSettings reads settings from path, or from ./shiftgrid.yaml when path is
// empty and that file exists. SHIFTGRID_* environment variables override file
// values.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("format", d.Format)
	v.SetDefault("database", d.Database)
	v.SetDefault("config", d.Config)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("listen", d.Listen)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	} else {
		v.SetConfigName(SettingsFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if s.PageSize <= 0 {
		return Settings{}, fmt.Errorf("settings: page_size must be positive, got %d", s.PageSize)
	}
	return s, nil
}
