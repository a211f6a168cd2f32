package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return NewTestService(privateKey, "test-issuer", 15*time.Minute)
}

// ============================================================================
// Claims Tests
// ============================================================================

func TestClaims_IsAdmin(t *testing.T) {
	t.Parallel()

	if !(&Claims{Role: "admin"}).IsAdmin() {
		t.Error("expected admin role to be admin")
	}
	if (&Claims{Role: "user"}).IsAdmin() {
		t.Error("expected user role not to be admin")
	}
}

// ============================================================================
// Sign Tests
// ============================================================================

func TestSign_ValidClaims_ReturnsToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(Claims{UserID: "user:123", Email: "a@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("expected 3 token parts, got %d", len(parts))
	}
}

func TestSign_NilPrivateKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test", expiration: time.Minute, now: time.Now}

	_, err := svc.Sign(Claims{UserID: "user:123"})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSign_SetsStandardClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(Claims{UserID: "user:123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer test-issuer, got %q", claims.Issuer)
	}
	if claims.Subject != "user:123" {
		t.Errorf("expected subject user:123, got %q", claims.Subject)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected exp and iat to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Errorf("expected 15m lifetime, got %v", got)
	}
}

func TestSign_PreservesCustomExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	token, err := svc.Sign(Claims{
		UserID:           "user:123",
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(exp)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Errorf("expected exp %v, got %v", exp, claims.ExpiresAt.Time)
	}
}

// ============================================================================
// Validate Tests
// ============================================================================

func TestValidate_RoundTripsCustomClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(Claims{UserID: "user:1", Email: "a@example.com", Role: "admin"})
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user:1" || claims.Email != "a@example.com" || !claims.IsAdmin() {
		t.Errorf("claims not preserved: %+v", claims)
	}
}

func TestValidate_NilPublicKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := &Service{issuer: "test", now: time.Now}

	_, err := svc.Validate("a.b.c")
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestValidate_Malformed_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "not.a.token"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_Expired_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(Claims{
		UserID:           "user:1",
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongKey_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	signer := newTestService(t)
	verifier := newTestService(t)

	token, _ := signer.Sign(Claims{UserID: "user:1"})
	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	signer := NewTestService(key, "other", time.Minute)
	verifier := NewTestService(key, "test-issuer", time.Minute)

	token, _ := signer.Sign(Claims{UserID: "user:1"})
	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsHS256(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	forged := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: "user:1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := forged.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

// ============================================================================
// Key File Tests
// ============================================================================

func TestGenerateKeyPair_LoadsIntoService(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	signer, err := NewService(Config{PrivateKeyPath: priv, Issuer: "folio", ExpirationMins: 5})
	if err != nil {
		t.Fatalf("NewService(private): %v", err)
	}
	verifier, err := NewService(Config{PublicKeyPath: pub, Issuer: "folio"})
	if err != nil {
		t.Fatalf("NewService(public): %v", err)
	}

	token, err := signer.Sign(Claims{UserID: "user:1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := verifier.Validate(token); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if _, err := verifier.Sign(Claims{UserID: "user:1"}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected public-only service to refuse signing, got %v", err)
	}
}

func TestNewService_MissingKeyFile(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{PrivateKeyPath: filepath.Join(t.TempDir(), "missing.pem")})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
