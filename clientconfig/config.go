// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package clientconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. BALLOT_API_URL
const EnvPrefix = "BALLOT"

// Config holds the voter CLI settings
type Config struct {
	APIURL          string        `mapstructure:"api_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
	OTPExpiry       time.Duration `mapstructure:"otp_expiry"`
	ResendCooldown  time.Duration `mapstructure:"resend_cooldown"`
	LockoutCooldown time.Duration `mapstructure:"lockout_cooldown"`
	StateDir        string        `mapstructure:"state_dir"`
	LogLevel        string        `mapstructure:"log_level"`
}

var keys = []string{
	"api_url", "timeout", "health_timeout", "otp_expiry",
	"resend_cooldown", "lockout_cooldown", "state_dir", "log_level",
}

// Load reads defaults, then config.yaml in the state directory if present,
// then BALLOT_* environment variables
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("api_url", "http://localhost:3318/api")
	v.SetDefault("timeout", "30s")
	v.SetDefault("health_timeout", "5s")
	v.SetDefault("otp_expiry", "10m")
	v.SetDefault("resend_cooldown", "60s")
	v.SetDefault("lockout_cooldown", "5m")
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("state_dir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the API URL and that every duration is positive
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	for name, d := range map[string]time.Duration{
		"timeout":          c.Timeout,
		"health_timeout":   c.HealthTimeout,
		"otp_expiry":       c.OTPExpiry,
		"resend_cooldown":  c.ResendCooldown,
		"lockout_cooldown": c.LockoutCooldown,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.StateDir == "" {
		return errors.New("state_dir is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses log_level (debug, info, warn, error)
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return l, nil
}

// SessionPath is the remembered-session file
func (c *Config) SessionPath() string {
	return filepath.Join(c.StateDir, "session.json")
}

// TabPath is the per-terminal session file for the shell with pid ppid
func (c *Config) TabPath(ppid int) string {
	return filepath.Join(c.StateDir, fmt.Sprintf("tab-%d.json", ppid))
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ballot")
	}
	return ".ballot"
}
