// ABOUTME: Connection settings for the upstream Memos instance.
// ABOUTME: Layers defaults, an optional YAML file, MEMOS_* env vars, and CLI flags via viper.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAPIPrefix = "/api/v1"
	DefaultTimeout   = 30 * time.Second

	placeholderToken   = "your_access_token_here"
	placeholderBaseURL = "https://your-memos-instance.com"
)

// Viper keys. Each is bound to an environment variable and, where it makes
// sense, a CLI flag of the same name with dashes.
const (
	KeyBaseURL     = "base_url"
	KeyAccessToken = "access_token"
	KeyAPIPrefix   = "api_prefix"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log_level"
	KeyTools       = "tools"
	KeyMetricsAddr = "metrics_addr"
)

var envBindings = map[string]string{
	KeyBaseURL:     "MEMOS_BASE_URL",
	KeyAccessToken: "MEMOS_ACCESS_TOKEN",
	KeyAPIPrefix:   "MEMOS_API_PREFIX",
	KeyTimeout:     "MEMOS_TIMEOUT",
	KeyLogLevel:    "LOG_LEVEL",
	KeyTools:       "MEMOS_TOOLS",
	KeyMetricsAddr: "MEMOS_METRICS_ADDR",
}

// Settings is the validated, read-only view of the configuration. It is
// handed out by value so no consumer can mutate another's copy.
type Settings struct {
	BaseURL     string
	AccessToken string
	APIPrefix   string
	Timeout     time.Duration
	LogLevel    string

	// Tools is a comma-separated allowlist of tool names or profiles.
	Tools string
	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string
}

// APIURL joins the base URL and API prefix without doubled slashes.
func (s Settings) APIURL() string {
	return strings.TrimRight(s.BaseURL, "/") + s.APIPrefix
}

// Validate checks required fields and normalises the API prefix.
func (s *Settings) Validate() error {
	base := strings.TrimSpace(s.BaseURL)
	if base == "" || base == placeholderBaseURL {
		return apperr.Configuration("MEMOS_BASE_URL is required; set it to your Memos instance URL")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Configuration("MEMOS_BASE_URL %q is not a valid http(s) URL", base)
	}
	s.BaseURL = strings.TrimRight(base, "/")

	token := strings.TrimSpace(s.AccessToken)
	if token == "" || token == placeholderToken {
		return apperr.Configuration("MEMOS_ACCESS_TOKEN is required")
	}
	s.AccessToken = token

	prefix := strings.TrimSpace(s.APIPrefix)
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	s.APIPrefix = strings.TrimRight(prefix, "/")

	if s.Timeout <= 0 {
		return apperr.Configuration("MEMOS_TIMEOUT must be positive, got %s", s.Timeout)
	}

	if s.LogLevel == "" {
		s.LogLevel = logging.DefaultLevel
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return apperr.Configuration("LOG_LEVEL: %v", err)
	}
	return nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "memos-mcp")
}

// ConfigPath returns the path to the optional config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// NewViper returns a viper instance with defaults and env bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault(KeyAPIPrefix, DefaultAPIPrefix)
	v.SetDefault(KeyTimeout, strconv.Itoa(int(DefaultTimeout/time.Second)))
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	v.SetDefault(KeyTools, "all")
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// BindFlags binds CLI flags onto viper keys. Flags are looked up by the
// dashed form of the key (base_url -> base-url); missing flags are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key := range envBindings {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Load reads the config file (explicit path, or the default path when it
// exists), then builds and validates Settings.
func Load(v *viper.Viper, configFile string) (Settings, error) {
	path := configFile
	if path == "" {
		if _, err := os.Stat(ConfigPath()); err == nil {
			path = ConfigPath()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if configFile != "" || !errors.As(err, &notFound) {
				return Settings{}, apperr.Wrap(apperr.KindConfiguration, err, "read config file %s: %v", path, err)
			}
		}
	}

	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		BaseURL:     v.GetString(KeyBaseURL),
		AccessToken: v.GetString(KeyAccessToken),
		APIPrefix:   v.GetString(KeyAPIPrefix),
		Timeout:     timeout,
		LogLevel:    v.GetString(KeyLogLevel),
		Tools:       v.GetString(KeyTools),
		MetricsAddr: v.GetString(KeyMetricsAddr),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseTimeout reads MEMOS_TIMEOUT. Bare numbers are seconds; Go duration
// strings such as "1500ms" are also accepted.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, apperr.Configuration("MEMOS_TIMEOUT %q is neither seconds nor a duration", raw)
	}
	return d, nil
}
