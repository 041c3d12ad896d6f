package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var.
type Config struct {
	// Server
	Port        int      `mapstructure:"PORT"`
	Env         string   `mapstructure:"APP_ENV"` // development | production
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	RateLimit   string   `mapstructure:"RATE_LIMIT"` // "300-M"; empty disables

	// Database
	DBPath string `mapstructure:"DB_PATH"`

	// Locking (empty REDIS_URL = in-process locks)
	RedisURL string        `mapstructure:"REDIS_URL"`
	LockTTL  time.Duration `mapstructure:"LOCK_TTL"`

	// Batch close (CLOSE_INTERVAL=0 disables the scheduler)
	BatchWorkers  int           `mapstructure:"BATCH_WORKERS"`
	CloseInterval time.Duration `mapstructure:"CLOSE_INTERVAL"`
}

// New returns a viper instance with defaults, env binding and the optional
// .env file. Callers may bind command-line flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Sensible defaults for development
	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:9002")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("DB_PATH", "depreciacion.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("BATCH_WORKERS", 4)
	v.SetDefault("CLOSE_INTERVAL", "1h")

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()
	return v
}

// Load decodes and checks the configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive, got %d", c.BatchWorkers)
	}
	if c.CloseInterval < 0 {
		return fmt.Errorf("CLOSE_INTERVAL must not be negative, got %s", c.CloseInterval)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	return nil
}

// splitList accepts both "a,b" (env) and ["a","b"] forms.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
