package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService covers administrative account management: staff provisioning,
// lookup, listing and removal. Self-service registration lives in
// AuthService.
type UserService struct {
	users      repository.UserRepository
	txm        repository.TxManager
	bcryptCost int
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	TxManager  repository.TxManager
	BcryptCost int
	Logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		txm:        deps.TxManager,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// CreateStaff provisions a SUPPORT_AGENT or ADMIN account. Staff accounts
// are created pre-verified; they never go through the OTP flow.
func (s *UserService) CreateStaff(ctx context.Context, email, password string, role domain.UserRole) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email must not be empty", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if role != domain.RoleSupportAgent && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("role must be SUPPORT_AGENT or ADMIN", map[string]any{"role": string(role)})
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
		Role:          role,
		EmailVerified: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns users page by page with the total count.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return users, total, nil
}

// Remove deletes an account. The database cascades ownership, so the user's
// tickets and comments go with it.
func (s *UserService) Remove(ctx context.Context, id string) error {
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// SupportAgents lists every staff account able to hold an assignment.
func (s *UserService) SupportAgents(ctx context.Context) ([]domain.User, error) {
	agents, err := s.users.ListByRoles(ctx, []domain.UserRole{domain.RoleSupportAgent, domain.RoleAdmin})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// AssignableAgents lists assignment candidates from the actor's viewpoint.
// Admins see every agent; a support agent sees everyone but themselves.
func (s *UserService) AssignableAgents(ctx context.Context, actorID string, role domain.UserRole) ([]domain.User, error) {
	agents, err := s.SupportAgents(ctx)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RoleAdmin:
		return agents, nil
	case domain.RoleSupportAgent:
		filtered := agents[:0]
		for _, agent := range agents {
			if agent.ID != actorID {
				filtered = append(filtered, agent)
			}
		}
		return filtered, nil
	default:
		return nil, apperrors.NewInvalidRole(string(role))
	}
}

// EnsureAdmin seeds the default administrator if the email is not taken.
// Startup is the only caller; a present account of any role wins.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	admin := &domain.User{
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		EmailVerified: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("seeded default administrator", zap.String("email", email))
	return nil
}
