package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Password constraints
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
	maxNameLength     = 100
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int, error)
	SetRole(ctx context.Context, userID string, role model.UserRole) error
	TouchLogin(ctx context.Context, userID string) error
	List(ctx context.Context, params model.ListParams) ([]*model.User, int, error)
}

// AuthService handles registration, login and token resolution
type AuthService struct {
	userRepo   UserRepository
	jwtService *jwt.Service
	bcryptCost int
	compare    func(hash, password []byte) error

	// dummyHash is compared against when no password hash exists, so an
	// unknown email costs as much as a wrong password
	dummyOnce sync.Once
	dummyHash []byte
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserRepository
	JWTService *jwt.Service
	BcryptCost int // defaults to bcryptCost
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}
	return &AuthService{
		userRepo:   cfg.UserRepo,
		jwtService: cfg.JWTService,
		bcryptCost: cost,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

func (s *AuthService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("folio-placeholder-password"), s.bcryptCost)
		if err != nil {
			slog.Error("failed to build placeholder hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by a successful register or login
type AuthResult struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"` // seconds
}

// Register creates a new account. The first account ever created is an admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	name := strings.TrimSpace(req.Name)

	var fields []model.FieldError
	if !isValidEmail(email) {
		fields = append(fields, model.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if msg := validatePassword(req.Password); msg != "" {
		fields = append(fields, model.FieldError{Field: "password", Message: msg})
	}
	if len(name) > maxNameLength {
		fields = append(fields, model.FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	role := model.UserRoleUser
	if count == 0 {
		role = model.UserRoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	user := &model.User{
		Email: email,
		Name:  name,
		Hash:  &hashStr,
		Role:  role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err, ErrEmailAlreadyExists)
	}

	if role == model.UserRoleAdmin {
		slog.Info("first user registered as admin", slog.String("user_id", user.ID))
	}
	return s.issue(user)
}

// Login authenticates a user with email/password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil || user.Hash == nil || *user.Hash == "" {
		_ = s.compare(s.placeholderHash(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := s.compare([]byte(*user.Hash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to record login", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}
	now := time.Now()
	user.LoginOn = &now

	return s.issue(user)
}

// Identify resolves a bearer token to the current identity. Invalid or
// expired tokens and deleted users resolve to nil without error; the role
// always comes from storage, not from the token.
func (s *AuthService) Identify(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return user.Identity(), nil
}

// Me returns the user behind identity
func (s *AuthService) Me(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// TokenTTL is how long issued tokens stay valid
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtService.GetExpiration()
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.jwtService.Sign(jwt.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.GetExpiration().Seconds()),
	}, nil
}

// validatePassword returns a message describing why password is unacceptable, or ""
func validatePassword(password string) string {
	switch {
	case password == "":
		return "password is required"
	case len(password) < minPasswordLength:
		return "password must be at least 8 characters"
	case len(password) > maxPasswordLength:
		return "password must be at most 72 characters"
	}
	return ""
}

func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	return strings.Contains(domain, ".")
}

