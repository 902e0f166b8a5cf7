package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// OTPStore holds short-lived email verification codes.
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// Mailer delivers outbound email. The in-tree implementation logs instead of
// sending.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
	SendWelcome(ctx context.Context, to string) error
}

// AuthService handles self-service registration, email verification and
// login. Staff accounts are provisioned elsewhere; registration always
// yields an unverified USER.
type AuthService struct {
	users      repository.UserRepository
	otps       OTPStore
	tokens     *auth.TokenManager
	mailer     Mailer
	disp       events.Dispatcher
	bcryptCost int
	otpTTL     time.Duration
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	OTPStore     OTPStore
	TokenManager *auth.TokenManager
	Mailer       Mailer
	Dispatcher   events.Dispatcher
	BcryptCost   int
	OTPTTL       time.Duration
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	ttl := deps.OTPTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AuthService{
		users:      deps.UserRepo,
		otps:       deps.OTPStore,
		tokens:     deps.TokenManager,
		mailer:     deps.Mailer,
		disp:       deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		otpTTL:     ttl,
	}
}

// AuthResult is a successful login outcome.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Register creates an unverified USER account and emails a verification
// code. Duplicate emails are rejected with a conflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email must not be empty", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		EmailVerified: false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}

	if s.disp != nil {
		_ = s.disp.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			Actor:     events.Actor{UserID: user.ID, Role: user.Role},
			Timestamp: time.Now(),
			Payload:   events.UserRegisteredPayload{Email: email},
		})
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token whose subject is the
// email and whose authorities carry the role. Unverified accounts cannot
// log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.EmailVerified {
		return nil, apperrors.NewForbidden("email address not verified")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.Email, []string{string(user.Role)})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyEmail checks the submitted code against the outstanding one and
// marks the account verified. The code is single-use.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return apperrors.MapError(err)
	}
	if user.EmailVerified {
		return nil
	}

	stored, err := s.otps.Get(ctx, email)
	if err != nil {
		return apperrors.NewUnauthorized("verification code expired or not found")
	}
	if stored != code {
		return apperrors.NewUnauthorized("verification code mismatch")
	}

	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	_ = s.otps.Delete(ctx, email)

	if s.mailer != nil {
		_ = s.mailer.SendWelcome(ctx, email)
	}
	return nil
}

// ResendOTP replaces the outstanding verification code for an unverified
// account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return apperrors.MapError(err)
	}
	if user.EmailVerified {
		return apperrors.NewConflict("email already verified", nil)
	}
	return s.issueOTP(ctx, email)
}

func (s *AuthService) issueOTP(ctx context.Context, email string) error {
	code, err := generateOTP()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.otps.Put(ctx, email, code, s.otpTTL); err != nil {
		return apperrors.NewInternalError(err)
	}
	if s.mailer != nil {
		_ = s.mailer.SendOTP(ctx, email, code)
	}
	return nil
}

// generateOTP produces a six digit code from a CSPRNG.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
