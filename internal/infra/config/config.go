package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Calendar store drivers.
const (
	CalendarDriverMemory   = "memory"
	CalendarDriverSQLite   = "sqlite"
	CalendarDriverPostgres = "postgres"
	CalendarDriverObject   = "object"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Bazi     BaziConfig     `yaml:"bazi"`
	Calendar CalendarConfig `yaml:"calendar"`
	Cache    CacheConfig    `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
	Auth         AuthConfig      `yaml:"auth"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AuthConfig enables bearer token checks on the API routes.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

// BaziConfig tunes profile computation.
type BaziConfig struct {
	StrongThreshold float64       `yaml:"strongThreshold"`
	MinYear         int           `yaml:"minYear"`
	MaxYear         int           `yaml:"maxYear"`
	BatchWorkers    int           `yaml:"batchWorkers"`
	MaxBatchSize    int           `yaml:"maxBatchSize"`
	CacheTTL        time.Duration `yaml:"cacheTtl"`
}

// CalendarConfig selects where the perpetual calendar table is read from.
type CalendarConfig struct {
	Driver       string            `yaml:"driver"`
	SnapshotPath string            `yaml:"snapshotPath"`
	SQLite       SQLiteConfig      `yaml:"sqlite"`
	Postgres     PostgresConfig    `yaml:"postgres"`
	ObjectStore  ObjectStoreConfig `yaml:"objectStore"`
}

// SQLiteConfig points at a local calendar database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStoreConfig locates a calendar snapshot in S3 compatible storage.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"useSsl"`
}

// CacheConfig configures the profile cache.
type CacheConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_AUTH_ENABLED"); v != "" {
		cfg.HTTP.Auth.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_AUTH_JWT_SECRET"); v != "" {
		cfg.HTTP.Auth.JWTSecret = v
	}
	if v := os.Getenv("BAZI_STRONG_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Bazi.StrongThreshold = parsed
		}
	}
	if v := os.Getenv("BAZI_BATCH_WORKERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Bazi.BatchWorkers = parsed
		}
	}
	if v := os.Getenv("BAZI_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bazi.CacheTTL = parsed
		}
	}
	if v := os.Getenv("CALENDAR_DRIVER"); v != "" {
		cfg.Calendar.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CALENDAR_SNAPSHOT_PATH"); v != "" {
		cfg.Calendar.SnapshotPath = v
	}
	if v := os.Getenv("CALENDAR_SQLITE_PATH"); v != "" {
		cfg.Calendar.SQLite.Path = v
	}
	if v := os.Getenv("CALENDAR_POSTGRES_DSN"); v != "" {
		cfg.Calendar.Postgres.DSN = v
	}
	if v := os.Getenv("CALENDAR_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Calendar.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CALENDAR_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Calendar.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("CALENDAR_OBJECT_ENDPOINT"); v != "" {
		cfg.Calendar.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("CALENDAR_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Calendar.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("CALENDAR_OBJECT_SECRET_KEY"); v != "" {
		cfg.Calendar.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("CALENDAR_OBJECT_BUCKET"); v != "" {
		cfg.Calendar.ObjectStore.Bucket = v
	}
	if v := os.Getenv("CALENDAR_OBJECT_KEY"); v != "" {
		cfg.Calendar.ObjectStore.Key = v
	}
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/profiles/batch",
				},
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:5173"},
			},
			Auth: AuthConfig{
				Enabled: false,
				Issuer:  "bazi",
			},
		},
		Bazi: BaziConfig{
			StrongThreshold: 0.55,
			MinYear:         1900,
			MaxYear:         2100,
			BatchWorkers:    4,
			MaxBatchSize:    200,
			CacheTTL:        24 * time.Hour,
		},
		Calendar: CalendarConfig{
			Driver: CalendarDriverMemory,
			SQLite: SQLiteConfig{
				Path: "data/wannianli.db",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
			ObjectStore: ObjectStoreConfig{
				Key:    "wannianli.json",
				UseSSL: true,
			},
		},
		Cache: CacheConfig{
			Valkey: ValkeyConfig{
				Enabled: false,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.HTTP.Auth.Enabled && strings.TrimSpace(c.HTTP.Auth.JWTSecret) == "" {
		return errors.New("http.auth.jwtSecret cannot be empty when auth is enabled")
	}
	if c.Bazi.StrongThreshold <= 0.5 || c.Bazi.StrongThreshold >= 1 {
		return errors.New("bazi.strongThreshold must be between 0.5 and 1")
	}
	if c.Bazi.MinYear < 1900 || c.Bazi.MaxYear > 2100 || c.Bazi.MaxYear < c.Bazi.MinYear {
		return errors.New("bazi.minYear and bazi.maxYear must form a range within [1900, 2100]")
	}
	if c.Bazi.BatchWorkers <= 0 {
		return errors.New("bazi.batchWorkers must be positive")
	}
	if c.Bazi.MaxBatchSize <= 0 {
		return errors.New("bazi.maxBatchSize must be positive")
	}
	if c.Bazi.CacheTTL < 0 {
		return errors.New("bazi.cacheTtl cannot be negative")
	}
	switch c.Calendar.Driver {
	case CalendarDriverMemory:
	case CalendarDriverSQLite:
		if strings.TrimSpace(c.Calendar.SQLite.Path) == "" {
			return errors.New("calendar.sqlite.path cannot be empty for the sqlite driver")
		}
	case CalendarDriverPostgres:
		if strings.TrimSpace(c.Calendar.Postgres.DSN) == "" {
			return errors.New("calendar.postgres.dsn cannot be empty for the postgres driver")
		}
	case CalendarDriverObject:
		store := c.Calendar.ObjectStore
		if strings.TrimSpace(store.Endpoint) == "" || strings.TrimSpace(store.Bucket) == "" || strings.TrimSpace(store.Key) == "" {
			return errors.New("calendar.objectStore endpoint, bucket and key are required for the object driver")
		}
	default:
		return fmt.Errorf("calendar.driver %q is not supported", c.Calendar.Driver)
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey cache is enabled")
	}
	return nil
}
