// Package config loads fetchm configuration from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (~/.config/fetchm/config.toml or $XDG_CONFIG_HOME/fetchm/config.toml),
// environment variables, command-line flags (applied by the CLI).
//
// Environment variables:
//   - FETCHM_API_KEY or NCBI_API_KEY: Entrez API key
//   - FETCHM_EMAIL: contact email sent with every Entrez request
//   - FETCHM_CACHE_DIR: override the cache directory
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted for the cache_backend config key.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all fetchm settings.
type Config struct {
	// APIKey is the NCBI Entrez API key. With a key Entrez allows
	// 10 requests/second instead of 3.
	APIKey string `toml:"api_key"`

	// Email is sent as the `email=` Entrez parameter so NCBI can contact
	// the user about problematic request patterns.
	Email string `toml:"email"`

	// Tool is sent as the `tool=` Entrez parameter.
	Tool string `toml:"tool"`

	// RateLimit overrides the requests-per-second limit. Zero means derive
	// from APIKey (10 with a key, 3 without).
	RateLimit float64 `toml:"rate_limit"`

	// CacheBackend selects the response cache: "file", "redis" or "none".
	CacheBackend string `toml:"cache_backend"`

	// CacheTTL is how long Entrez responses are cached.
	CacheTTL duration `toml:"cache_ttl"`

	// Redis holds connection settings when CacheBackend is "redis".
	Redis RedisConfig `toml:"redis"`

	// MongoURI, when set, is the default archive target for fetch --store.
	MongoURI string `toml:"mongo_uri"`
}

// RedisConfig mirrors cache.RedisConfig for the config file.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// duration wraps time.Duration for TOML decoding of strings like "168h".
type duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Duration returns the wrapped time.Duration.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tool:         "fetchm",
		CacheBackend: BackendFile,
		CacheTTL:     duration(7 * 24 * time.Hour),
	}
}

// Load reads the config file at path (or the default location if path is
// empty) and applies environment overrides. A missing file is not an error;
// defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides config values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FETCHM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("NCBI_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("FETCHM_EMAIL"); v != "" {
		cfg.Email = v
	}
}

// defaultPath returns the default config file location using the XDG
// standard (~/.config/fetchm/config.toml). Returns empty if no home
// directory is available.
func defaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fetchm", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fetchm", "config.toml")
}

// EffectiveRateLimit returns the requests-per-second budget for Entrez.
func (c Config) EffectiveRateLimit() float64 {
	if c.RateLimit > 0 {
		return c.RateLimit
	}
	if c.APIKey != "" {
		return 10
	}
	return 3
}
