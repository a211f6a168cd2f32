package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid ENV")
	}
	if !strings.Contains(err.Error(), "ENV") {
		t.Errorf("expected error to mention ENV, got: %v", err)
	}
}

func TestConfig_Validate_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid", "8080", false},
		{"empty", "", true},
		{"not a number", "http", true},
		{"out of range", "70000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = nil

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected CORS_ALLOWED_ORIGINS error, got: %v", err)
	}
}

func TestConfig_Validate_NegativeIdempotencyTTL(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.IdempotencyTTL = -time.Hour

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "IDEMPOTENCY_TTL") {
		t.Errorf("expected IDEMPOTENCY_TTL error, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SURREAL_HOST") {
		t.Errorf("expected SURREAL_HOST error, got: %v", err)
	}
}

func TestConfig_Validate_JWTKeys(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.PrivateKeyPath = "./keys/private.pem"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must be set together") {
		t.Errorf("expected paired key error, got: %v", err)
	}

	cfg.JWT.PublicKeyPath = "./keys/public.pem"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config with both keys, got: %v", err)
	}
}

func TestConfig_Validate_InvalidJWTExpiration(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.ExpirationMins = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_EXPIRATION_MINUTES") {
		t.Errorf("expected JWT_EXPIRATION_MINUTES error, got: %v", err)
	}
}

func TestConfig_Validate_Production(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors for production without keys or secure cookies")
	}
	for _, want := range []string{"JWT_PRIVATE_KEY_PATH", "AUTH_COOKIE_SECURE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}

	cfg.JWT.PrivateKeyPath = "/etc/folio/private.pem"
	cfg.JWT.PublicKeyPath = "/etc/folio/public.pem"
	cfg.Auth.CookieSecure = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid production config, got: %v", err)
	}
}

func TestConfig_Validate_Media(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Media.Dir = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "MEDIA_DIR") {
		t.Errorf("expected MEDIA_DIR error, got: %v", err)
	}

	// S3 replaces the local directory
	cfg.Media.S3 = S3Config{Bucket: "folio-media", Region: "eu-west-1", AccessKeyID: "AKIA"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "S3_SECRET_ACCESS_KEY") {
		t.Errorf("expected missing secret error, got: %v", err)
	}

	cfg.Media.S3.SecretAccessKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid S3 config, got: %v", err)
	}

	cfg = validBaseConfig()
	cfg.Media.MaxBytes = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "MEDIA_MAX_BYTES") {
		t.Errorf("expected MEDIA_MAX_BYTES error, got: %v", err)
	}

	cfg = validBaseConfig()
	cfg.Media.SweepInterval = -time.Minute
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "MEDIA_SWEEP_INTERVAL") {
		t.Errorf("expected MEDIA_SWEEP_INTERVAL error, got: %v", err)
	}

	// Zero disables the sweep
	cfg.Media.SweepInterval = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled sweep to be valid, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors for empty config")
	}

	errStr := err.Error()
	expectedErrors := []string{
		"PORT",
		"ENV",
		"CORS_ALLOWED_ORIGINS",
		"SURREAL_HOST",
		"SURREAL_NAMESPACE",
		"JWT_EXPIRATION_MINUTES",
		"AUTH_COOKIE_NAME",
		"MEDIA_MAX_BYTES",
	}
	for _, expected := range expectedErrors {
		if !strings.Contains(errStr, expected) {
			t.Errorf("expected error to mention %s, got: %v", expected, err)
		}
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := validBaseConfig()
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("expected development config")
	}
	cfg.Server.Env = "production"
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to be true")
	}
}

func TestLoadFile_DotenvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SURREAL_NAMESPACE=from_file\nMEDIA_MAX_BYTES=2048\nPORT=9999\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7000")
	// Unset for the test; t.Setenv restores the previous state afterwards
	for _, key := range []string{"SURREAL_NAMESPACE", "MEDIA_MAX_BYTES"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected environment PORT to win, got %s", cfg.Server.Port)
	}
	if cfg.Database.Namespace != "from_file" {
		t.Errorf("expected namespace from file, got %s", cfg.Database.Namespace)
	}
	if cfg.Media.MaxBytes != 2048 {
		t.Errorf("expected MEDIA_MAX_BYTES 2048, got %d", cfg.Media.MaxBytes)
	}
}

func TestLoadFile_MissingFileIsFine(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Auth.CookieName == "" {
		t.Error("expected defaults to be applied")
	}
}

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "folio",
			Database:  "main",
		},
		JWT: JWTConfig{
			ExpirationMins: 60,
			Issuer:         "folio",
		},
		Auth: AuthConfig{
			CookieName:         "folio_token",
			RateLimitPerMinute: 10,
		},
		Media: MediaConfig{
			Dir:      "./uploads",
			BaseURL:  "/uploads",
			MaxBytes: 10 << 20,
		},
		LogLevel: "info",
	}
}
