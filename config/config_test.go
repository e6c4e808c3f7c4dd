package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultAppName, cfg.App.Name)
	assert.Equal(t, DefaultAppVersion, cfg.App.Version)
	assert.Equal(t, "", cfg.API.BaseURL)
	assert.False(t, cfg.APIConfigured())
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, "blue", cfg.UI.PrimaryColor)
	assert.Equal(t, ColorSchemeLight, cfg.UI.DefaultColorScheme)
	assert.Equal(t, PositionTopRight, cfg.UI.Notifications.Position)
	assert.Equal(t, 4*time.Second, cfg.UI.Notifications.AutoClose())
	assert.Equal(t, 300*time.Millisecond, cfg.Performance.DebounceDelay())
	assert.Equal(t, 5*time.Minute, cfg.Performance.CacheTimeout())
	assert.Equal(t, 3, cfg.Performance.MaxRetries)
	assert.Equal(t, 8, cfg.Validation.MinPasswordLength)
	assert.True(t, cfg.Validation.RequireSpecialChars)
}

func TestLoad_APIBaseURLOverride(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "absent", env: map[string]string{}, want: ""},
		{name: "override", env: map[string]string{EnvAPIBaseURL: "https://api.example.com/v1"}, want: "https://api.example.com/v1"},
		{name: "kept verbatim", env: map[string]string{EnvAPIBaseURL: "  not a url/ "}, want: "  not a url/ "},
		{name: "other variables ignored", env: map[string]string{"API_URL": "https://other"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(lookupFrom(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.API.BaseURL)
			assert.Equal(t, tt.want != "", cfg.APIConfigured())
		})
	}
}

func TestLoad_OverrideLeavesOtherDefaults(t *testing.T) {
	cfg, err := Load(lookupFrom(map[string]string{EnvAPIBaseURL: "http://localhost:3000"}))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.App, cfg.App)
	assert.Equal(t, def.UI, cfg.UI)
	assert.Equal(t, def.Performance, cfg.Performance)
	assert.Equal(t, def.API.TimeoutMS, cfg.API.TimeoutMS)
}

func TestGet_ConstructedOnce(t *testing.T) {
	first := Get()
	t.Setenv(EnvAPIBaseURL, "https://changed.example.com")
	second := Get()

	if first != second {
		t.Fatal("Get returned different records")
	}
	if second.API.BaseURL == "https://changed.example.com" {
		t.Error("environment was re-read after construction")
	}
}

// TestGet_AppliesOverrideBeforeFirstUse runs Get in a fresh process so the
// override is in place before the record is built.
func TestGet_AppliesOverrideBeforeFirstUse(t *testing.T) {
	if os.Getenv("IMOVEL_CONFIG_CHILD") == "1" {
		fmt.Printf("base_url=%s configured=%v\n", Get().API.BaseURL, Get().APIConfigured())
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestGet_AppliesOverrideBeforeFirstUse$")
	cmd.Env = append(os.Environ(),
		"IMOVEL_CONFIG_CHILD=1",
		EnvAPIBaseURL+"=https://api.imoveis.test/v1",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	assert.Contains(t, string(out), "base_url=https://api.imoveis.test/v1 configured=true")
}

func TestValidEmail(t *testing.T) {
	cfg := Default()

	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.com", true},
		{"user.name@imoveis.com.br", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a@b.", false},
		{"@b.com", false},
		{"a b@c.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := cfg.ValidEmail(tt.input); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.CheckPassword("s3gura!senha"))

	var perr PasswordError
	err := cfg.CheckPassword("a!")
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.TooShort)
	assert.False(t, perr.MissingSpecial)

	err = cfg.CheckPassword("longpassword")
	require.True(t, errors.As(err, &perr))
	assert.False(t, perr.TooShort)
	assert.True(t, perr.MissingSpecial)

	err = cfg.CheckPassword("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters and a special character")
}

func TestCheckPassword_SpecialNotRequired(t *testing.T) {
	cfg := Default()
	cfg.Validation.RequireSpecialChars = false

	assert.NoError(t, cfg.CheckPassword("longpassword"))
}

func TestDump(t *testing.T) {
	cfg, err := Load(lookupFrom(map[string]string{EnvAPIBaseURL: "https://api.example.com"}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	var decoded map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "https://api.example.com", decoded["api"]["base_url"])
	assert.Equal(t, 10000, decoded["api"]["timeout_ms"])
	assert.Equal(t, DefaultEmailPattern, decoded["validation"]["email_pattern"])
	assert.NotContains(t, buf.String(), "email:")
}
