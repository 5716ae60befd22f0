// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Register RegisterConfig `yaml:"register" mapstructure:"register"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Google   GoogleConfig   `yaml:"google" mapstructure:"google"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// RegisterConfig locates the sponsor register source.
type RegisterConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// SearchConfig holds matching defaults.
type SearchConfig struct {
	Threshold  float64 `yaml:"threshold" mapstructure:"threshold"`
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int `yaml:"port" mapstructure:"port"`
	RatePerHour    int `yaml:"rate_per_hour" mapstructure:"rate_per_hour"`
	SearchPerMin   int `yaml:"search_per_min" mapstructure:"search_per_min"`
	URLCheckPerMin int `yaml:"url_check_per_min" mapstructure:"url_check_per_min"`
}

// CacheConfig configures the local sqlite store.
type CacheConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// GoogleConfig holds Custom Search credentials for profile enrichment.
type GoogleConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	CX     string `yaml:"cx" mapstructure:"cx"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPONSOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	// The CSV asset URL is date-stamped and changes with each monthly
	// publication; it has no stable default. The landing page is
	// https://www.gov.uk/government/publications/register-of-licensed-sponsors-workers
	v.SetDefault("register.path", "uk_sponsors.csv")
	v.SetDefault("register.url", "")
	v.SetDefault("search.threshold", 0.5)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_hour", 100)
	v.SetDefault("server.search_per_min", 30)
	v.SetDefault("server.url_check_per_min", 20)
	v.SetDefault("cache.path", "sponsorcheck.db")
	v.SetDefault("cache.ttl_days", 30)
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.cx", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
