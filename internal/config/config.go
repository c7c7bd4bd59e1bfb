package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
	"github.com/spf13/viper"
)

const defaultEnvFile = "configs/.env"

// ErrAPIAddressRequired is returned when strict mode is on and no base address is configured.
var ErrAPIAddressRequired = errors.New("api_address is required (set API_ADDRESS)")

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIAddress         string        `mapstructure:"api_address"`
	APIAddressRequired bool          `mapstructure:"api_address_required"`
	APITimeoutSeconds  int64         `mapstructure:"api_timeout_seconds"`
	APITimeout         time.Duration `mapstructure:"-"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`

	PublishersFile        string        `mapstructure:"publishers_file"`
	PublishTimeoutSeconds int64         `mapstructure:"publish_timeout_seconds"`
	PublishTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and configs/.env.
func Load() (*Config, error) {
	return load(defaultEnvFile)
}

func load(envFile string) (*Config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load(envFile)

	v := viper.New()

	v.SetDefault("app_name", "samvad-api-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_address_required", false)
	v.SetDefault("api_timeout_seconds", 30)
	v.SetDefault("journal_type", "none")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("publishers_file", "")
	v.SetDefault("publish_timeout_seconds", 10)

	// REACT_APP_API_ADDRESS is accepted for deployments sharing the web app's env file.
	if err := v.BindEnv("api_address", "API_ADDRESS", "REACT_APP_API_ADDRESS"); err != nil {
		return nil, fmt.Errorf("bind api_address: %w", err)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.APIAddress = strings.TrimSpace(cfg.APIAddress)

	if cfg.APIAddressRequired && cfg.APIAddress == "" {
		return nil, ErrAPIAddressRequired
	}
	if cfg.APITimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	if cfg.PublishTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid publish_timeout_seconds (must be positive seconds)")
	}
	cfg.PublishTimeout = time.Duration(cfg.PublishTimeoutSeconds) * time.Second

	return &cfg, nil
}

// BaseAddress returns the configured API address as an explicit optional value.
func (c *Config) BaseAddress() httpclient.BaseAddress {
	if c == nil {
		return httpclient.NoBaseAddress()
	}
	return httpclient.ParseBaseAddress(c.APIAddress)
}

// ClientConfiguration derives the shared HTTP client configuration.
func (c *Config) ClientConfiguration() httpclient.Configuration {
	if c == nil {
		return httpclient.NewConfiguration(httpclient.NoBaseAddress())
	}
	return httpclient.NewConfiguration(c.BaseAddress(), httpclient.WithTimeout(c.APITimeout))
}
