package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CaptureConfig struct {
	DefaultInterval int           `mapstructure:"default_interval"`
	DefaultSaveDir  string        `mapstructure:"default_save_dir"`
	PromptTimeout   time.Duration `mapstructure:"prompt_timeout"`
	ResumeDelay     time.Duration `mapstructure:"resume_delay"`
	Autostart       bool          `mapstructure:"autostart"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	JSONFormat bool   `mapstructure:"json_format"`
}

func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	// Set defaults
	v.SetDefault("database.path", filepath.Join(home, ".screensnap", "screensnap.db"))
	v.SetDefault("capture.default_interval", 60)
	v.SetDefault("capture.default_save_dir", filepath.Join(home, "Screenshots"))
	v.SetDefault("capture.prompt_timeout", "10s")
	v.SetDefault("capture.resume_delay", "1s")
	v.SetDefault("capture.autostart", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json_format", false)

	// Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(home, ".screensnap"))
	v.AddConfigPath("/etc/screensnap")

	// Environment variables
	v.SetEnvPrefix("SCREENSNAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found is OK, use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Capture.DefaultInterval < 1 {
		return fmt.Errorf("capture.default_interval must be at least 1 second")
	}
	if c.Capture.DefaultSaveDir == "" {
		return fmt.Errorf("capture.default_save_dir is required")
	}
	if c.Capture.PromptTimeout <= 0 {
		return fmt.Errorf("capture.prompt_timeout must be positive")
	}
	if c.Capture.ResumeDelay < 0 {
		return fmt.Errorf("capture.resume_delay must not be negative")
	}
	return nil
}
