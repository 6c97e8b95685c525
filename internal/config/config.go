package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Staging   StagingConfig   `mapstructure:"staging"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// StagingConfig bounds the in-memory body store.
type StagingConfig struct {
	MaxBodyBytes         int64 `mapstructure:"max_body_bytes"`
	TTLSeconds           int   `mapstructure:"ttl_seconds"`
	SweepIntervalSeconds int   `mapstructure:"sweep_interval_seconds"`
	// UnsafeReadEnabled exposes raw staged bodies over HTTP. Diagnostics only.
	UnsafeReadEnabled      bool `mapstructure:"unsafe_read_enabled"`
	UpstreamTimeoutSeconds int  `mapstructure:"upstream_timeout_seconds"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c StagingConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c StagingConfig) SweepInterval() time.Duration {
	if c.SweepIntervalSeconds <= 0 || c.SweepIntervalSeconds > c.TTLSeconds {
		// Sweep at least as often as entries expire
		return c.TTL()
	}
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c StagingConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", "8787")
	v.SetDefault("server.env", "development")
	v.SetDefault("staging.max_body_bytes", int64(10*1024*1024))
	v.SetDefault("staging.ttl_seconds", 600)
	v.SetDefault("staging.sweep_interval_seconds", 60)
	v.SetDefault("staging.unsafe_read_enabled", false)
	// Streamed bodies can be held open for a long time by slow upstreams
	v.SetDefault("staging.upstream_timeout_seconds", 300)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.requests_per_second", 100.0)
	v.SetDefault("rate_limit.burst", 200)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.Staging.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("staging.max_body_bytes must be positive, got %d", cfg.Staging.MaxBodyBytes)
	}
	if cfg.Staging.TTLSeconds <= 0 {
		return nil, fmt.Errorf("staging.ttl_seconds must be positive, got %d", cfg.Staging.TTLSeconds)
	}

	return &cfg, nil
}
