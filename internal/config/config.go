// Package config holds the configuration of the tzquery command.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/ngrash/go-tzdb/internal/compress"
	"github.com/ngrash/go-tzdb/zone"
)

// Config holds the tzquery configuration
type Config struct {
	Data  DataConfig  `json:"data"`
	Cache CacheConfig `json:"cache"`
	Log   LogConfig   `json:"log"`
}

// DataConfig locates the container and says how to load it
type DataConfig struct {
	Path  string `json:"path"`
	Eager bool   `json:"eager"`
	// Compression is the codec used by pack.
	Compression string `json:"compression"`
}

// CacheConfig configures the per-zone interval caches
type CacheConfig struct {
	Disabled bool `json:"disabled"`
	zone.CacheConfig

	// periodShiftSet records that the period shift came from a file, where
	// zero is a valid choice rather than "unset".
	periodShiftSet bool
}

// UnmarshalJSON decodes the cache section and notes whether period_shift
// was present.
func (cc *CacheConfig) UnmarshalJSON(data []byte) error {
	type plain CacheConfig
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p := plain(*cc)
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*cc = CacheConfig(p)
	_, cc.periodShiftSet = fields["period_shift"]
	return nil
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of fatal, info, debug or trace.
	Level string `json:"level"`
	// ConfigFile is a log4g configuration file; it takes precedence over
	// Level.
	ConfigFile string `json:"config_file"`
}

var logLevels = map[string]bool{"fatal": true, "info": true, "debug": true, "trace": true}

// DefaultConfig returns the default configuration with TZDB_* environment
// overrides applied
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:        getEnv("TZDB_PATH", "tzdb.bin"),
			Eager:       getEnvBool("TZDB_EAGER", false),
			Compression: getEnv("TZDB_COMPRESSION", compress.Zstd.String()),
		},
		Cache: CacheConfig{
			Disabled: getEnvBool("TZDB_CACHE_DISABLED", false),
			CacheConfig: zone.CacheConfig{
				Size:        getEnvInt("TZDB_CACHE_SIZE", zone.DefaultCacheConfig().Size),
				PeriodShift: uint(getEnvInt("TZDB_CACHE_PERIOD_SHIFT", int(zone.DefaultCacheConfig().PeriodShift))),
			},
		},
		Log: LogConfig{
			Level: getEnv("TZDB_LOG_LEVEL", "fatal"),
		},
	}
}

// ReadFile reads a JSON configuration file.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Apply overrides c with the non-zero fields of other.
func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	c.Data.Apply(other.Data)
	c.Cache.Apply(other.Cache)
	c.Log.Apply(other.Log)
}

func (d *DataConfig) Apply(other DataConfig) {
	if other.Path != "" {
		d.Path = other.Path
	}
	if other.Eager {
		d.Eager = true
	}
	if other.Compression != "" {
		d.Compression = other.Compression
	}
}

func (cc *CacheConfig) Apply(other CacheConfig) {
	if other.Disabled {
		cc.Disabled = true
	}
	if other.Size != 0 {
		cc.Size = other.Size
	}
	if other.PeriodShift != 0 || other.periodShiftSet {
		cc.PeriodShift = other.PeriodShift
	}
}

func (l *LogConfig) Apply(other LogConfig) {
	if other.Level != "" {
		l.Level = other.Level
	}
	if other.ConfigFile != "" {
		l.ConfigFile = other.ConfigFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data path is required")
	}
	if _, err := compress.ParseType(c.Data.Compression); err != nil {
		return err
	}
	if !c.Cache.Disabled {
		if err := c.Cache.Validate(); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	if !logLevels[c.Log.Level] {
		return fmt.Errorf("log level %q must be one of fatal, info, debug or trace", c.Log.Level)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
