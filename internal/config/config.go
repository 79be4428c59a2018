// Package config loads filinglens configuration from defaults, an
// optional YAML file, and FILINGLENS_* environment variables, in
// ascending precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/filinglens/filinglens/internal/secgov"
)

// Config is the complete application configuration.
type Config struct {
	UserAgent string        `mapstructure:"user_agent"`
	RateLimit int           `mapstructure:"rate_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Cache     CacheConfig   `mapstructure:"cache"`
	Server    ServerConfig  `mapstructure:"server"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	// Dir overrides the default cache directory when non-empty.
	Dir string `mapstructure:"dir"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format selects the encoder: console or json.
	Format string `mapstructure:"format"`
}

// DefaultConfigDir returns the directory searched for config.yaml,
// honoring XDG_CONFIG_HOME.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "filinglens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "filinglens"), nil
}

func setDefaults(v *viper.Viper) {
	base := secgov.DefaultConfig()

	v.SetDefault("user_agent", base.UserAgent)
	v.SetDefault("rate_limit", base.MaxRequestsPerSecond)
	v.SetDefault("timeout", base.Timeout)
	v.SetDefault("cache.enabled", base.CacheEnabled)
	v.SetDefault("cache.ttl", base.CacheTTL)
	v.SetDefault("cache.dir", "")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from cfgFile, or from config.yaml in the
// default config directory and the working directory when cfgFile is
// empty. A missing file is fine; defaults and environment variables
// still apply. Environment variables use the FILINGLENS_ prefix with
// underscores for nesting, e.g. FILINGLENS_CACHE_TTL=30m.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FILINGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// ClientConfig converts the loaded configuration into the policy the
// shared HTTP client consumes.
func (c *Config) ClientConfig() secgov.Config {
	return secgov.Config{
		UserAgent:            c.UserAgent,
		MaxRequestsPerSecond: c.RateLimit,
		Timeout:              c.Timeout,
		CacheTTL:             c.Cache.TTL,
		CacheEnabled:         c.Cache.Enabled,
		CacheDir:             c.Cache.Dir,
	}
}

// Addr returns the host:port the API server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
