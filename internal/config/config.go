// Package config handles configuration loading for fundwatch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	SEC     SECConfig     `mapstructure:"sec"     yaml:"sec"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SECConfig holds EDGAR access settings. The user agent is mandatory per
// SEC policy and should identify the operator with a contact address.
type SECConfig struct {
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	RequestSpacing  time.Duration `mapstructure:"request_spacing"  yaml:"request_spacing"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	ParallelFetches int           `mapstructure:"parallel_fetches" yaml:"parallel_fetches"`
}

// CacheConfig holds the holdings cache settings.
type CacheConfig struct {
	Dir string        `mapstructure:"dir" yaml:"dir"`
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// SnapshotPath is where the persisted cache entry lives.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.Cache.Dir, "holdings_cache.json")
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.fundwatch/config.yaml (home directory)
//  3. /etc/fundwatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: FUNDWATCH_<SECTION>_<KEY>, e.g. FUNDWATCH_SEC_USER_AGENT
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".fundwatch"))
	v.AddConfigPath("/etc/fundwatch")

	v.SetEnvPrefix("FUNDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found: use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FUNDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sec.user_agent", "fundwatch/1.0 (github.com/fundwatch/fundwatch)")
	v.SetDefault("sec.request_spacing", 150*time.Millisecond)
	v.SetDefault("sec.request_timeout", 20*time.Second)
	v.SetDefault("sec.parallel_fetches", 3)

	v.SetDefault("cache.dir", "./cache")
	v.SetDefault("cache.ttl", 24*time.Hour) // 13F data changes quarterly

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
