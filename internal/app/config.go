package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/payments"
	"github.com/raysh454/paydash/internal/webclient"
)

// EnvPrefix prefixes every environment variable LoadConfig reads, e.g. PAYDASH_API_BASE.
const EnvPrefix = "PAYDASH"

// Config contains the runtime configuration of the dashboard.
type Config struct {
	// ListenAddr is the HTTP listen address of the dashboard.
	ListenAddr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Payments holds the payments service base URLs.
	Payments payments.Config

	// WebClient configures the outbound HTTP client.
	WebClient webclient.Config

	// Timezone is the IANA zone used to interpret filter inputs when the browser
	// does not send one. Empty means the server's local zone.
	Timezone string

	// PageSize is the initial page size of every history view.
	PageSize int

	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration

	// ReapInterval is how often idle sessions are looked for.
	ReapInterval time.Duration

	// AllowedOrigins feeds the CORS middleware of the JSON API.
	AllowedOrigins []string

	// DefaultSourceType and DefaultTargetType preselect the validation form.
	DefaultSourceType string
	DefaultTargetType string
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		LogLevel:          "info",
		Payments:          payments.DefaultConfig(),
		WebClient:         webclient.DefaultConfig(),
		PageSize:          history.DefaultPageSize,
		SessionTTL:        2 * time.Hour,
		ReapInterval:      5 * time.Minute,
		AllowedOrigins:    []string{"*"},
		DefaultSourceType: "pain.001.001.03",
		DefaultTargetType: "MT101",
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate reports configuration errors that would break the dashboard at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is empty"))
	}
	if !history.ValidSize(c.PageSize) {
		errs = append(errs, fmt.Errorf("page_size %d is not one of %v", c.PageSize, history.PageSizes))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: %w", err))
		}
	}
	return errors.Join(errs...)
}

// fileConfig is the flat on-disk and environment shape of Config.
type fileConfig struct {
	ListenAddr        string        `mapstructure:"listen_addr"`
	LogLevel          string        `mapstructure:"log_level"`
	APIBase           string        `mapstructure:"api_base"`
	HistoryBase       string        `mapstructure:"history_base"`
	StatsBase         string        `mapstructure:"stats_base"`
	WebClient         string        `mapstructure:"webclient"`
	ClientTimeout     time.Duration `mapstructure:"client_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timezone          string        `mapstructure:"timezone"`
	PageSize          int           `mapstructure:"page_size"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	ReapInterval      time.Duration `mapstructure:"reap_interval"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	DefaultSourceType string        `mapstructure:"default_source_type"`
	DefaultTargetType string        `mapstructure:"default_target_type"`
}

// LoadConfig layers defaults, an optional config file and PAYDASH_* environment
// variables, highest last. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("api_base", def.Payments.APIBase)
	v.SetDefault("history_base", "")
	v.SetDefault("stats_base", "")
	v.SetDefault("webclient", string(def.WebClient.Client))
	v.SetDefault("client_timeout", def.WebClient.Timeout)
	v.SetDefault("user_agent", def.WebClient.UserAgent)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("session_ttl", def.SessionTTL)
	v.SetDefault("reap_interval", def.ReapInterval)
	v.SetDefault("allowed_origins", def.AllowedOrigins)
	v.SetDefault("default_source_type", def.DefaultSourceType)
	v.SetDefault("default_target_type", def.DefaultTargetType)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr != nil {
				return nil, fmt.Errorf("config file %s: %w", path, statErr)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	// Comma separated lists from the environment arrive as one element.
	if len(fc.AllowedOrigins) == 1 && strings.Contains(fc.AllowedOrigins[0], ",") {
		fc.AllowedOrigins = strings.Split(fc.AllowedOrigins[0], ",")
	}

	cfg := &Config{
		ListenAddr: fc.ListenAddr,
		LogLevel:   fc.LogLevel,
		Payments: payments.Config{
			APIBase:     fc.APIBase,
			HistoryBase: fc.HistoryBase,
			StatsBase:   fc.StatsBase,
		}.Normalize(),
		WebClient: webclient.Config{
			Client:    webclient.Client(fc.WebClient),
			Timeout:   fc.ClientTimeout,
			UserAgent: fc.UserAgent,
		},
		Timezone:          fc.Timezone,
		PageSize:          fc.PageSize,
		SessionTTL:        fc.SessionTTL,
		ReapInterval:      fc.ReapInterval,
		AllowedOrigins:    trimAll(fc.AllowedOrigins),
		DefaultSourceType: fc.DefaultSourceType,
		DefaultTargetType: fc.DefaultTargetType,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
