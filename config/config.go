// Package config holds the process-wide application settings.
//
// The record is built once from hard-coded defaults with a single
// environment override (IMOVEL_API_URL) layered on top. Nothing mutates it
// afterwards; consumers receive the same *Config from Get for the lifetime of
// the process.
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvAPIBaseURL overrides the API base endpoint. It is the only environment
// variable the store consumes.
const EnvAPIBaseURL = "IMOVEL_API_URL"

// ColorScheme is the default color scheme of the UI.
type ColorScheme string

const (
	ColorSchemeLight ColorScheme = "light"
	ColorSchemeDark  ColorScheme = "dark"
)

// NotificationPosition is where notifications are placed on screen.
type NotificationPosition string

const (
	PositionTopLeft      NotificationPosition = "top-left"
	PositionTopRight     NotificationPosition = "top-right"
	PositionTopCenter    NotificationPosition = "top-center"
	PositionBottomLeft   NotificationPosition = "bottom-left"
	PositionBottomRight  NotificationPosition = "bottom-right"
	PositionBottomCenter NotificationPosition = "bottom-center"
)

// Config is the application configuration record
type Config struct {
	App         AppConfig         `mapstructure:"app" yaml:"app"`
	API         APIConfig         `mapstructure:"api" yaml:"api"`
	UI          UIConfig          `mapstructure:"ui" yaml:"ui"`
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`
	Validation  ValidationConfig  `mapstructure:"validation" yaml:"validation"`
}

// AppConfig carries the display identity of the application
type AppConfig struct {
	Name        string `mapstructure:"name" yaml:"name" validate:"required"`
	Version     string `mapstructure:"version" yaml:"version" validate:"required"`
	Description string `mapstructure:"description" yaml:"description"`
}

// APIConfig describes the backend API. An empty BaseURL means the API is not
// configured; see APIConfigured.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms" yaml:"timeout_ms" validate:"gt=0"`
}

// UIConfig holds UI defaults
type UIConfig struct {
	PrimaryColor       string              `mapstructure:"primary_color" yaml:"primary_color" validate:"required"`
	DefaultColorScheme ColorScheme         `mapstructure:"default_color_scheme" yaml:"default_color_scheme" validate:"oneof=light dark"`
	Notifications      NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
}

// NotificationsConfig holds notification placement and display duration
type NotificationsConfig struct {
	Position    NotificationPosition `mapstructure:"position" yaml:"position" validate:"oneof=top-left top-right top-center bottom-left bottom-right bottom-center"`
	AutoCloseMS int                  `mapstructure:"auto_close_ms" yaml:"auto_close_ms" validate:"gt=0"`
}

// PerformanceConfig holds client-side tunables
type PerformanceConfig struct {
	DebounceDelayMS int `mapstructure:"debounce_delay_ms" yaml:"debounce_delay_ms" validate:"gte=0"`
	CacheTimeoutMS  int `mapstructure:"cache_timeout_ms" yaml:"cache_timeout_ms" validate:"gte=0"`
	MaxRetries      int `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`
}

// ValidationConfig holds the input validation rules shared by forms.
type ValidationConfig struct {
	MinPasswordLength   int    `mapstructure:"min_password_length" yaml:"min_password_length" validate:"gt=0"`
	RequireSpecialChars bool   `mapstructure:"require_special_chars" yaml:"require_special_chars"`
	EmailPattern        string `mapstructure:"email_pattern" yaml:"email_pattern" validate:"required"`

	email *regexp.Regexp
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

var (
	global     *Config
	globalOnce sync.Once
)

// Get returns the process-wide configuration, constructing it on first use.
// The environment is read exactly once.
func Get() *Config {
	globalOnce.Do(func() {
		cfg, err := Load(os.LookupEnv)
		if err != nil {
			// Only the compiled-in defaults can fail validation.
			panic(fmt.Sprintf("config: invalid built-in configuration: %v", err))
		}
		global = cfg
	})
	return global
}

// Default returns the built-in configuration with no overrides applied.
func Default() *Config {
	cfg, err := Load(nil)
	if err != nil {
		panic(fmt.Sprintf("config: invalid built-in configuration: %v", err))
	}
	return cfg
}

// Load builds a configuration from the defaults and the overrides visible
// through lookup. A nil lookup applies no overrides. Missing values are never
// an error.
func Load(lookup LookupFunc) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if lookup != nil {
		if baseURL, ok := lookup(EnvAPIBaseURL); ok {
			v.Set("api.base_url", baseURL)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration is invalid: %w", err)
	}

	email, err := regexp.Compile(cfg.Validation.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern %q: %w", cfg.Validation.EmailPattern, err)
	}
	cfg.Validation.email = email

	return &cfg, nil
}

// APIConfigured reports whether an API base URL was supplied
func (c *Config) APIConfigured() bool {
	return c.API.BaseURL != ""
}

// Timeout returns the API request timeout
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// AutoClose returns how long a notification stays on screen
func (n *NotificationsConfig) AutoClose() time.Duration {
	return time.Duration(n.AutoCloseMS) * time.Millisecond
}

// DebounceDelay returns the input debounce delay
func (p *PerformanceConfig) DebounceDelay() time.Duration {
	return time.Duration(p.DebounceDelayMS) * time.Millisecond
}

// CacheTimeout returns how long fetched data may be cached
func (p *PerformanceConfig) CacheTimeout() time.Duration {
	return time.Duration(p.CacheTimeoutMS) * time.Millisecond
}

// ValidEmail reports whether s matches the email-format rule
func (c *Config) ValidEmail(s string) bool {
	return c.Validation.email.MatchString(s)
}

// Dump writes the effective configuration as YAML
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
