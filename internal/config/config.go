package config

import (
	"errors"
	"fmt"
	"time"

	"filetime/internal/models"
	"filetime/internal/render"

	"github.com/spf13/viper"
)

// Config holds the settings that shape timestamp resolution. Keys follow the
// site generator's upper case setting names; viper matches them case
// insensitively.
type Config struct {
	Follow            bool   `mapstructure:"git_filetime_follow"`          // follow renames when listing commits
	OnlyIfMissing     bool   `mapstructure:"git_filetime_only_if_missing"` // never override preset dates
	Timezone          string `mapstructure:"timezone"`                     // zone attached to filesystem times
	DefaultDateFormat string `mapstructure:"default_date_format"`          // strftime layout for locale dates
	Path              string `mapstructure:"path"`                         // content root
}

// Load reads defaults, then the config file, then FILETIME_* environment
// variables. An empty path looks for filetime.yaml in the working directory
// and is fine without one.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("git_filetime_follow", false)
	v.SetDefault("git_filetime_only_if_missing", false)
	v.SetDefault("timezone", "")
	v.SetDefault("default_date_format", render.DefaultDateFormat)
	v.SetDefault("path", "content")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("filetime")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("FILETIME")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// Location loads the configured zone. No zone means the system default,
// reported as nil.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Options turns the config into resolver options.
func (c *Config) Options() (models.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return models.Options{}, err
	}

	return models.Options{
		Follow:        c.Follow,
		OnlyIfMissing: c.OnlyIfMissing,
		Location:      loc,
	}, nil
}
