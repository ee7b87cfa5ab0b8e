// Package config loads service configuration from .env, an optional YAML file
// and the environment, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainservices "docspace/domain/services"
	"docspace/pkg/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig                `yaml:"server"`
	Supabase  SupabaseConfig              `yaml:"supabase"`
	Storage   StorageConfig               `yaml:"storage"`
	Cache     CacheConfig                 `yaml:"cache"`
	Tags      TagsConfig                  `yaml:"tags"`
	Layout    domainservices.LayoutConfig `yaml:"layout"`
	RateLimit RateLimitConfig             `yaml:"rate_limit"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	IsLambda      bool `yaml:"-"`

	// ConfigFile is the YAML file the configuration was read from, if any.
	ConfigFile string `yaml:"-"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address        string        `yaml:"address" validate:"required"`
	Environment    string        `yaml:"environment" validate:"oneof=development test staging production"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

// SupabaseConfig points at the hosted database and auth service.
type SupabaseConfig struct {
	URL        string `yaml:"url" validate:"omitempty,url"`
	ServiceKey string `yaml:"service_key"`
	JWTSecret  string `yaml:"jwt_secret"`
	JWTIssuer  string `yaml:"jwt_issuer"`
}

// StorageConfig configures the S3-compatible bucket holding uploads.
type StorageConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	AccessKey      string        `yaml:"access_key"`
	SecretKey      string        `yaml:"secret_key"`
	Bucket         string        `yaml:"bucket" validate:"required_with=Endpoint"`
	UseSSL         bool          `yaml:"use_ssl"`
	Region         string        `yaml:"region"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gte=0"`
	PresignExpiry  time.Duration `yaml:"presign_expiry" validate:"gte=0"`
}

// CacheConfig selects Redis when RedisURL is set and an in-process LRU otherwise.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	LRUSize  int           `yaml:"lru_size" validate:"gte=1"`
}

// TagsConfig points at the optional tag generation service.
type TagsConfig struct {
	ServiceURL string        `yaml:"service_url" validate:"omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
}

// RateLimitConfig bounds API requests per user. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gte=0"`
}

// Default returns the configuration used before any source is applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			Environment:    "development",
			CORSOrigins:    []string{"*"},
			RequestTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Bucket:         "docspace-files",
			Region:         "us-east-1",
			MaxUploadBytes: 25 << 20,
			PresignExpiry:  15 * time.Minute,
		},
		Cache: CacheConfig{
			TTL:     30 * time.Second,
			LRUSize: 256,
		},
		Tags: TagsConfig{
			Timeout: 5 * time.Second,
		},
		Layout:    domainservices.DefaultLayoutConfig(),
		RateLimit: RateLimitConfig{RequestsPerMinute: 120},
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from .env, CONFIG_FILE and the environment
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Address = getEnv("SERVER_ADDRESS", c.Server.Address)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.CORSOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.Server.CORSOrigins)
	c.Server.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.Supabase.URL = getEnv("SUPABASE_URL", c.Supabase.URL)
	c.Supabase.ServiceKey = getEnv("SUPABASE_SERVICE_KEY", getEnv("SUPABASE_ANON_KEY", c.Supabase.ServiceKey))
	c.Supabase.JWTSecret = getEnv("SUPABASE_JWT_SECRET", c.Supabase.JWTSecret)
	c.Supabase.JWTIssuer = getEnv("SUPABASE_JWT_ISSUER", c.Supabase.JWTIssuer)

	c.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", c.Storage.Endpoint)
	c.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)
	c.Storage.UseSSL = getEnvBool("STORAGE_USE_SSL", c.Storage.UseSSL)
	c.Storage.Region = getEnv("STORAGE_REGION", c.Storage.Region)
	c.Storage.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(c.Storage.MaxUploadBytes)))
	c.Storage.PresignExpiry = getEnvDuration("PRESIGN_EXPIRY", c.Storage.PresignExpiry)

	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)
	c.Cache.LRUSize = getEnvInt("CACHE_LRU_SIZE", c.Cache.LRUSize)

	c.Tags.ServiceURL = getEnv("TAG_SERVICE_URL", c.Tags.ServiceURL)
	c.Tags.Timeout = getEnvDuration("TAG_SERVICE_TIMEOUT", c.Tags.Timeout)

	c.Layout.CenterX = getEnvFloat("LAYOUT_CENTER_X", c.Layout.CenterX)
	c.Layout.CenterY = getEnvFloat("LAYOUT_CENTER_Y", c.Layout.CenterY)
	c.Layout.Radius = getEnvFloat("LAYOUT_RADIUS", c.Layout.Radius)

	c.RateLimit.RequestsPerMinute = getEnvInt("RATE_LIMIT_RPM", c.RateLimit.RequestsPerMinute)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.IsLambda = getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout configuration: %w", err)
	}

	if c.IsProduction() {
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required in production")
		}
		if c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required in production")
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// UseSupabase reports whether persistence should go to Supabase rather than memory.
func (c *Config) UseSupabase() bool {
	return c.Supabase.URL != "" && c.Supabase.ServiceKey != ""
}

// UseObjectStorage reports whether an S3-compatible endpoint is configured.
func (c *Config) UseObjectStorage() bool {
	return c.Storage.Endpoint != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
