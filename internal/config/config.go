package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type HTTPConfig struct {
	Port              int `mapstructure:"port"`
	ReadTimeoutSec    int `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int `mapstructure:"write_timeout_sec"`
	ShutdownSec       int `mapstructure:"shutdown_timeout_sec"`
	RequestTimeoutSec int `mapstructure:"request_timeout_sec"`
}

// DatabaseConfig selects the document store. Driver is "mongo" or "memory";
// when empty it is "mongo" if URL is set and "memory" otherwise.
type DatabaseConfig struct {
	Driver            string `mapstructure:"driver"`
	URL               string `mapstructure:"url"`
	Name              string `mapstructure:"name"`
	ConnectTimeoutSec int    `mapstructure:"connect_timeout_sec"`
	// Atlas occasionally fails TLS negotiation unless pinned to 1.2.
	ForceTLS12 bool `mapstructure:"force_tls12"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig guards /api/matches, which scans every stored profile.
type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	Limit         int    `mapstructure:"limit"`
	WindowSec     int    `mapstructure:"window_sec"`
	BlockSec      int    `mapstructure:"block_sec"`
}

type MatchingConfig struct {
	DefaultLimit int           `mapstructure:"default_limit"`
	Weights      WeightsConfig `mapstructure:"weights"`
}

type WeightsConfig struct {
	SharedInterest  float64 `mapstructure:"shared_interest"`
	SharedSkill     float64 `mapstructure:"shared_skill"`
	ComplementSkill float64 `mapstructure:"complement_skill"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads an optional YAML file at path, then applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindings := map[string][]string{
		"http.port":                 {"HTTP_PORT", "PORT"},
		"logging.level":             {"LOGGING_LEVEL", "LOG_LEVEL"},
		"rate_limit.redis_addr":     {"RATE_LIMIT_REDIS_ADDR", "REDIS_ADDR"},
		"rate_limit.redis_password": {"RATE_LIMIT_REDIS_PASSWORD", "REDIS_PASSWORD"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.port", 8000)
	v.SetDefault("http.read_timeout_sec", 10)
	v.SetDefault("http.write_timeout_sec", 15)
	v.SetDefault("http.shutdown_timeout_sec", 10)
	v.SetDefault("http.request_timeout_sec", 10)
	v.SetDefault("database.driver", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.name", "networking")
	v.SetDefault("database.connect_timeout_sec", 10)
	v.SetDefault("database.force_tls12", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.redis_addr", "")
	v.SetDefault("rate_limit.redis_password", "")
	v.SetDefault("rate_limit.limit", 60)
	v.SetDefault("rate_limit.window_sec", 60)
	v.SetDefault("rate_limit.block_sec", 300)
	v.SetDefault("matching.default_limit", 10)
	v.SetDefault("matching.weights.shared_interest", 2.0)
	v.SetDefault("matching.weights.shared_skill", 1.0)
	v.SetDefault("matching.weights.complement_skill", 0.5)
	v.SetDefault("logging.level", "")
}

// ApplyDefaults fills fields whose zero value is never meaningful.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "local"
	}
	if c.Database.Driver == "" {
		if c.Database.URL != "" {
			c.Database.Driver = DriverMongo
		} else {
			c.Database.Driver = DriverMemory
		}
	}
	if c.Database.Name == "" {
		c.Database.Name = "networking"
	}
	if c.HTTP.RequestTimeoutSec <= 0 {
		c.HTTP.RequestTimeoutSec = 10
	}
	if c.Matching.DefaultLimit <= 0 {
		c.Matching.DefaultLimit = 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the mongo driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMongo, DriverMemory, c.Database.Driver)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			return fmt.Errorf("rate_limit.redis_addr is required when rate limiting is enabled")
		}
		if c.RateLimit.Limit <= 0 || c.RateLimit.WindowSec <= 0 {
			return fmt.Errorf("rate_limit.limit and rate_limit.window_sec must be positive")
		}
	}
	w := c.Matching.Weights
	if w.SharedInterest < 0 || w.SharedSkill < 0 || w.ComplementSkill < 0 {
		return fmt.Errorf("matching.weights must not be negative")
	}
	return nil
}

func (c HTTPConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSec) * time.Second
}

func (c RateLimitConfig) Block() time.Duration {
	return time.Duration(c.BlockSec) * time.Second
}
