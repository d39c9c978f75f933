// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Addr   string

	DatabaseURL    string
	RedisURL       string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret []byte
	ClockSkew time.Duration
	AccessTTL time.Duration

	LogLevel string
	LogFile  string

	AllowedOrigins []string
	MaxBodySize    int64

	RateLimitPerSec float64
	RateLimitBurst  int

	ListCacheTTL      time.Duration
	CacheOpTimeout    time.Duration
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// Load reads envFile (missing file is fine) and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Addr:            getEnv("HTTP_ADDR", ":3000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       []byte(os.Getenv("AUTH_JWT_SECRET")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		AllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		RateLimitPerSec: 5,
		RateLimitBurst:  20,
	}

	var err error
	if cfg.ClockSkew, err = envDuration("AUTH_CLOCK_SKEW", "60s"); err != nil {
		return nil, fmt.Errorf("AUTH_CLOCK_SKEW: %w", err)
	}
	if cfg.AccessTTL, err = envDuration("AUTH_ACCESS_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("AUTH_ACCESS_TTL: %w", err)
	}
	if cfg.ListCacheTTL, err = envDuration("BOOKS_CACHE_TTL", "60s"); err != nil {
		return nil, fmt.Errorf("BOOKS_CACHE_TTL: %w", err)
	}
	if cfg.CacheOpTimeout, err = envDuration("CACHE_TIMEOUT", "150ms"); err != nil {
		return nil, fmt.Errorf("CACHE_TIMEOUT: %w", err)
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.ReadHeaderTimeout, err = envDuration("READ_HEADER_TIMEOUT", "5s"); err != nil {
		return nil, fmt.Errorf("READ_HEADER_TIMEOUT: %w", err)
	}
	if cfg.MaxBodySize, err = envInt64("MAX_BODY_SIZE", 1<<20); err != nil {
		return nil, fmt.Errorf("MAX_BODY_SIZE: %w", err)
	}
	if cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}
	if v := os.Getenv("RATE_LIMIT_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_PER_SEC: invalid rate %q", v)
		}
		cfg.RateLimitPerSec = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST: invalid burst %q", v)
		}
		cfg.RateLimitBurst = n
	}
	return cfg, nil
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func (c *Config) HardeningWarnings() []string {
	var warns []string
	if c.AccessTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_ACCESS_TTL=%s is > 1h; consider shorter access tokens", c.AccessTTL))
	}
	if c.RedisURL == "" {
		warns = append(warns, "REDIS_URL not set; list cache is disabled and rate limits are per instance")
	}
	if c.Production() && strings.HasPrefix(c.RedisURL, "redis://") {
		warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
	}
	return warns
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key, def string) (time.Duration, error) {
	s := getEnv(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q", v)
	}
	return n, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid count %q", v)
	}
	return n, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
