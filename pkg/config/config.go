// Package config loads the vsimap server configuration from a TOML file.
//
// All fields have working defaults; a missing config file is not an error
// so `vsimap serve` runs out of the box against a --source-url flag.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mfriedel/vsimap/pkg/errors"
)

// Duration wraps time.Duration so TOML values can be written as "30s", "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the vsimap server configuration.
type Config struct {
	Listen string       `toml:"listen"`
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
}

// SourceConfig configures the upstream record source.
type SourceConfig struct {
	URL          string   `toml:"url"`
	PollInterval Duration `toml:"poll_interval"` // 0 disables background polling
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "file", "redis", or "none"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8080",
		Cache: CacheConfig{
			Backend: "none",
			TTL:     Duration{5 * time.Minute},
		},
	}
}

// Load reads a TOML config file on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}
	if c.Source.PollInterval.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "poll_interval must not be negative")
	}
	return nil
}

// String renders the effective configuration for --verbose startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("listen=%s source=%s poll=%s cache=%s",
		c.Listen, c.Source.URL, c.Source.PollInterval.Duration, c.Cache.Backend)
}
