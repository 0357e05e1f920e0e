// Package config loads the tracker settings.
//
// Settings come, by increasing precedence, from built-in defaults, an
// optional YAML file, a .env file in the working directory and STERLING_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Price sources.
const (
	SourceYahoo  = "yahoo"
	SourcePage   = "page"
	SourceStatic = "static"
)

// Config holds application configuration
type Config struct {
	LedgerFile string `yaml:"ledger_file"`
	Name       string `yaml:"name"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	Refresh struct {
		Schedule     string        `yaml:"schedule"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		AutoRefresh  bool          `yaml:"auto_refresh"`
	} `yaml:"refresh"`

	Prices struct {
		Source string `yaml:"source"`
		Yahoo  struct {
			BaseURL string `yaml:"base_url"`
			Suffix  string `yaml:"suffix"`
		} `yaml:"yahoo"`
		Page struct {
			URL      string `yaml:"url"`
			Selector string `yaml:"selector"`
		} `yaml:"page"`
		Static   map[string]float64 `yaml:"static"`
		CacheTTL time.Duration      `yaml:"cache_ttl"`
	} `yaml:"prices"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		LedgerFile: "trades.json",
		Name:       "Portfolio",
	}
	cfg.Log.Level = "info"
	cfg.Refresh.Schedule = "@every 5m"
	cfg.Refresh.FetchTimeout = 10 * time.Second
	cfg.Refresh.AutoRefresh = true
	cfg.Prices.Source = SourceYahoo
	cfg.Prices.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	cfg.Prices.Yahoo.Suffix = ".L"
	cfg.Prices.CacheTTL = time.Minute
	return cfg
}

// Load reads the YAML file at path on top of the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config %q: %w", path, err)
		}
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LedgerFile = getEnv("STERLING_LEDGER", c.LedgerFile)
	c.Log.Level = getEnv("STERLING_LOG_LEVEL", c.Log.Level)
	c.Refresh.Schedule = getEnv("STERLING_REFRESH_SCHEDULE", c.Refresh.Schedule)
	c.Prices.Source = getEnv("STERLING_PRICE_SOURCE", c.Prices.Source)

	var err error
	if c.Log.Pretty, err = getEnvAsBool("STERLING_LOG_PRETTY", c.Log.Pretty); err != nil {
		return err
	}
	if c.Refresh.AutoRefresh, err = getEnvAsBool("STERLING_AUTO_REFRESH", c.Refresh.AutoRefresh); err != nil {
		return err
	}
	if c.Refresh.FetchTimeout, err = getEnvAsDuration("STERLING_FETCH_TIMEOUT", c.Refresh.FetchTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.LedgerFile == "" {
		return errors.New("ledger_file is required")
	}
	if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
		return fmt.Errorf("invalid refresh.schedule %q: %w", c.Refresh.Schedule, err)
	}
	if c.Refresh.FetchTimeout <= 0 {
		return fmt.Errorf("refresh.fetch_timeout must be positive, got %v", c.Refresh.FetchTimeout)
	}
	switch c.Prices.Source {
	case SourceYahoo, SourceStatic:
	case SourcePage:
		if c.Prices.Page.URL == "" || c.Prices.Page.Selector == "" {
			return errors.New("prices.page.url and prices.page.selector are required by the page source")
		}
	default:
		return fmt.Errorf("invalid prices.source %q: must be %q, %q or %q", c.Prices.Source, SourceYahoo, SourcePage, SourceStatic)
	}
	if c.Prices.CacheTTL < 0 {
		return fmt.Errorf("prices.cache_ttl must not be negative, got %v", c.Prices.CacheTTL)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
