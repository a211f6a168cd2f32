package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Media    MediaConfig
	LogLevel string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host           string
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	IdempotencyTTL time.Duration
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds JWT signing settings. With both key paths empty the
// server signs with an ephemeral key generated at startup.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// AuthConfig holds session cookie and login throttling settings
type AuthConfig struct {
	CookieName         string
	CookieSecure       bool
	RateLimitPerMinute int
}

// MediaConfig holds upload storage settings
type MediaConfig struct {
	Dir      string // local upload root
	BaseURL  string // URL prefix local uploads are served from
	MaxBytes int64
	S3       S3Config

	// SweepInterval is how often orphaned local uploads are removed; zero disables the sweep
	SweepInterval time.Duration
}

// S3Config holds S3 (or S3 compatible) storage settings. S3 is used when
// Bucket is set.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// Enabled reports whether uploads should go to S3
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first; variables already set
// in the environment take precedence over it.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else {
		slog.Debug("loaded environment file", slog.String("path", path))
	}

	return &Config{
		Server: ServerConfig{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			IdempotencyTTL: getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:      getEnv("SURREAL_HOST", "localhost"),
			Port:      getEnv("SURREAL_PORT", "8000"),
			Namespace: getEnv("SURREAL_NAMESPACE", "folio"),
			Database:  getEnv("SURREAL_DATABASE", "main"),
			User:      getEnv("SURREAL_USER", "root"),
			Password:  getEnv("SURREAL_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINUTES", 7*24*60),
			Issuer:         getEnv("JWT_ISSUER", "folio"),
		},
		Auth: AuthConfig{
			CookieName:         getEnv("AUTH_COOKIE_NAME", "folio_token"),
			CookieSecure:       getBoolEnv("AUTH_COOKIE_SECURE", false),
			RateLimitPerMinute: getIntEnv("AUTH_RATE_LIMIT_PER_MINUTE", 10),
		},
		Media: MediaConfig{
			Dir:      getEnv("MEDIA_DIR", "./uploads"),
			BaseURL:  getEnv("MEDIA_BASE_URL", "/uploads"),
			MaxBytes: int64(getIntEnv("MEDIA_MAX_BYTES", 10<<20)),
			S3: S3Config{
				Bucket:          getEnv("S3_BUCKET", ""),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
				AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
				PublicURL:       getEnv("S3_PUBLIC_URL", ""),
			},
			SweepInterval: getDurationEnv("MEDIA_SWEEP_INTERVAL", 24*time.Hour),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	} else if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got '%s'", c.Server.Port))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}
	if c.Server.IdempotencyTTL < 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL must not be negative"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("SURREAL_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("SURREAL_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("SURREAL_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("SURREAL_DATABASE is required"))
	}

	// JWT validation - an ephemeral key would log everyone out on restart
	if (c.JWT.PrivateKeyPath == "") != (c.JWT.PublicKeyPath == "") {
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together"))
	}
	if c.IsProduction() && c.JWT.PrivateKeyPath == "" {
		errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINUTES must be positive"))
	}

	// Auth validation
	if c.Auth.CookieName == "" {
		errs = append(errs, errors.New("AUTH_COOKIE_NAME is required"))
	}
	if c.Auth.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_PER_MINUTE must be positive"))
	}
	if c.IsProduction() && !c.Auth.CookieSecure {
		errs = append(errs, errors.New("AUTH_COOKIE_SECURE must be true in production"))
	}

	// Media validation
	if c.Media.MaxBytes <= 0 {
		errs = append(errs, errors.New("MEDIA_MAX_BYTES must be positive"))
	}
	if c.Media.SweepInterval < 0 {
		errs = append(errs, errors.New("MEDIA_SWEEP_INTERVAL must not be negative"))
	}
	if c.Media.S3.Enabled() {
		if err := c.Media.S3.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("S3: %w", err))
		}
	} else if c.Media.Dir == "" {
		errs = append(errs, errors.New("MEDIA_DIR is required when S3_BUCKET is not set"))
	}

	if c.LogLevel != "" {
		switch strings.ToLower(c.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", c.LogLevel))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that the S3 fields needed to reach the bucket are present
func (s S3Config) Validate() error {
	var missing []string
	if s.Region == "" {
		missing = append(missing, "S3_REGION")
	}
	if s.AccessKeyID == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if s.SecretAccessKey == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
