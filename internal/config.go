package internal

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
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// SMTP Configuration. An empty host logs notices instead of sending.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Public origin, used for asset URLs and the secure-cookie decision
	BaseURL string

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	LocalStoragePath string
	LocalStorageURL  string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	R2Endpoint        string // Optional, for S3-compatible stand-ins

	// Cache Configuration
	CacheProvider string // "memory" or "redis"
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Optional YAML file replacing the embedded nav categories
	NavConfigPath string

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	// Booking creation limit per client IP
	BookingRateLimit  int
	BookingRateWindow time.Duration

	// Reverse proxies (IPs or CIDRs) whose X-Forwarded-For is believed.
	// Empty means forwarding headers are ignored.
	TrustedProxies []string

	// Background job worker
	WorkerConcurrency int
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@skybooker.vn"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "SkyBooker"),

		BaseURL: strings.TrimSuffix(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "/assets"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2Endpoint:        getEnv("R2_ENDPOINT", ""),

		CacheProvider: getEnv("CACHE_PROVIDER", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		NavConfigPath: getEnv("NAV_CONFIG_PATH", ""),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		BookingRateLimit:  getEnvInt("BOOKING_RATE_LIMIT", 10),
		BookingRateWindow: getEnvDuration("BOOKING_RATE_WINDOW", 10*time.Minute),
		TrustedProxies:    getEnvList("TRUSTED_PROXIES"),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 1),
	}

	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseUrl == "" {
		return errors.New("DATABASE_URL is required")
	}

	switch c.StorageProvider {
	case "local":
	case "r2":
		required := []struct{ name, value string }{
			{"R2_ACCOUNT_ID or R2_ENDPOINT", c.R2AccountID + c.R2Endpoint},
			{"R2_ACCESS_KEY_ID", c.R2AccessKeyID},
			{"R2_SECRET_ACCESS_KEY", c.R2SecretAccessKey},
			{"R2_BUCKET_NAME", c.R2BucketName},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("%s is required when STORAGE_PROVIDER is 'r2'", r.name)
			}
		}
	default:
		return fmt.Errorf("STORAGE_PROVIDER must be 'local' or 'r2', got %q", c.StorageProvider)
	}

	switch {
	case c.CacheProvider != "memory" && c.CacheProvider != "redis":
		return fmt.Errorf("CACHE_PROVIDER must be 'memory' or 'redis', got %q", c.CacheProvider)
	case c.BookingRateLimit < 1:
		return fmt.Errorf("BOOKING_RATE_LIMIT must be positive, got %d", c.BookingRateLimit)
	case c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535):
		return fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort)
	}
	return nil
}

// IsSecure reports whether cookies should carry the Secure flag.
func (c *Config) IsSecure() bool {
	return c.Env != "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
