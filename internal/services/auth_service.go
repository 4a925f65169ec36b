package services

import (
	"buho-backend/internal/auth"
	"buho-backend/internal/config"
	"buho-backend/internal/models"
	"buho-backend/internal/ratelimit"
	"buho-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Custom errors for auth service
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailDomainForbidden = errors.New("email domain is not allowed")
	ErrHashingPassword      = errors.New("failed to hash password")
	ErrCreatingToken        = errors.New("failed to create access token")
	ErrValidation           = errors.New("input validation failed")
)

// AccountLockedError reports a temporary login lockout after repeated
// failures, including how long the caller must wait.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	minutes := int(e.Remaining.Minutes()) + 1
	return fmt.Sprintf("cuenta bloqueada temporalmente, intenta de nuevo en %d minutos", minutes)
}

type AuthService struct {
	store store.Store
	cfg   *config.Config
	guard *ratelimit.LoginGuard
}

func NewAuthService(s store.Store, cfg *config.Config, guard *ratelimit.LoginGuard) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
		guard: guard,
	}
}

// Signup creates a new user. Registration is restricted to the configured
// university email domain.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	if !strings.HasSuffix(email, "@"+s.cfg.AllowedEmailDomain) {
		return nil, fmt.Errorf("%w: solo se permiten correos con dominio @%s", ErrEmailDomainForbidden, s.cfg.AllowedEmailDomain)
	}

	// Check if user already exists
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error checking user existence for %s: %v", email, err)
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	// User does not exist (store.ErrNotFound received), proceed.

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", email, err)
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           strings.TrimSpace(name),
		HashedPassword: hashedPassword,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("AuthService: user %s signed up (ID %s)", email, user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token. Repeated failures
// for one email trigger a temporary lockout.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	if ok, remaining := s.guard.Check(email); !ok {
		return nil, "", &AccountLockedError{Remaining: remaining}
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.guard.RecordFailure(email)
			return nil, "", ErrInvalidCredentials
		}
		log.Printf("Error fetching user %s during login: %v", email, err)
		return nil, "", fmt.Errorf("failed to fetch user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		s.guard.RecordFailure(email)
		return nil, "", ErrInvalidCredentials
	}

	s.guard.RecordSuccess(email)

	token, err := auth.NewAccessToken(user.ID, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		return nil, "", ErrCreatingToken
	}

	return user, token, nil
}
