package config

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Built-in defaults. Every field of Config has one, so a missing value is
// never an error.
const (
	DefaultAppName             = "Gestão de Imóveis"
	DefaultAppVersion          = "1.0.0"
	DefaultAppDescription      = "Sistema de gestão de imóveis"
	DefaultAPITimeoutMS        = 10000
	DefaultPrimaryColor        = "blue"
	DefaultColorScheme         = ColorSchemeLight
	DefaultNotificationPos     = PositionTopRight
	DefaultNotificationCloseMS = 4000
	DefaultDebounceDelayMS     = 300
	DefaultCacheTimeoutMS      = 5 * 60 * 1000
	DefaultMaxRetries          = 3
	DefaultMinPasswordLength   = 8
	DefaultRequireSpecialChars = true
	DefaultEmailPattern        = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
)

// specialChars is the character class a password must draw from when
// RequireSpecialChars is set.
var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-+=\[\]\\/;'~` + "`" + `]`)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", DefaultAppName)
	v.SetDefault("app.version", DefaultAppVersion)
	v.SetDefault("app.description", DefaultAppDescription)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout_ms", DefaultAPITimeoutMS)

	v.SetDefault("ui.primary_color", DefaultPrimaryColor)
	v.SetDefault("ui.default_color_scheme", string(DefaultColorScheme))
	v.SetDefault("ui.notifications.position", string(DefaultNotificationPos))
	v.SetDefault("ui.notifications.auto_close_ms", DefaultNotificationCloseMS)

	v.SetDefault("performance.debounce_delay_ms", DefaultDebounceDelayMS)
	v.SetDefault("performance.cache_timeout_ms", DefaultCacheTimeoutMS)
	v.SetDefault("performance.max_retries", DefaultMaxRetries)

	v.SetDefault("validation.min_password_length", DefaultMinPasswordLength)
	v.SetDefault("validation.require_special_chars", DefaultRequireSpecialChars)
	v.SetDefault("validation.email_pattern", DefaultEmailPattern)
}

// PasswordError describes why a candidate password was rejected
type PasswordError struct {
	MinLength      int
	TooShort       bool
	MissingSpecial bool
}

func (e PasswordError) Error() string {
	switch {
	case e.TooShort && e.MissingSpecial:
		return fmt.Sprintf("password must have at least %d characters and a special character", e.MinLength)
	case e.TooShort:
		return fmt.Sprintf("password must have at least %d characters", e.MinLength)
	default:
		return "password must contain a special character"
	}
}

// CheckPassword evaluates the password rules against s
func (c *Config) CheckPassword(s string) error {
	rules := c.Validation
	perr := PasswordError{MinLength: rules.MinPasswordLength}

	if utf8.RuneCountInString(s) < rules.MinPasswordLength {
		perr.TooShort = true
	}
	if rules.RequireSpecialChars && !specialChars.MatchString(s) {
		perr.MissingSpecial = true
	}

	if perr.TooShort || perr.MissingSpecial {
		return perr
	}
	return nil
}
