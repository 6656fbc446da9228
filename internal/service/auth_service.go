package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates registration and login flows.
type AuthService struct {
	users                repository.UserRepository
	tokenMgr             *auth.TokenManager
	passwords            *auth.PasswordHasher
	allowModeratorSignup bool
	logger               *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:                users,
		tokenMgr:             tokens,
		passwords:            auth.NewPasswordHasher(cfg.BcryptCost),
		allowModeratorSignup: cfg.AllowModeratorSignup,
		logger:               logger,
	}
}

// RegisterInput describes a sign-up request.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Validate normalizes and checks the input.
func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password,
			validation.Required,
			validation.Length(minPasswordLength, 0).Error("Password must be at least 6 characters long"),
		),
		validation.Field(&in.Role, validation.In(domain.RoleUser, domain.RoleModerator)),
	)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Register creates an account. A requested moderator role is honoured only
// when moderator sign-up is enabled.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	role := domain.RoleUser
	if input.Role == domain.RoleModerator {
		if !s.allowModeratorSignup {
			s.logger.Warn("moderator sign-up requested while disabled", zap.String("email", input.Email))
		} else {
			role = domain.RoleModerator
		}
	}
	return s.createUser(ctx, input.Name, input.Email, input.Password, role)
}

// EnsureModerator creates a moderator account unless the email is already
// registered. It reports whether an account was created.
func (s *AuthService) EnsureModerator(ctx context.Context, name, email, password string) (bool, error) {
	input := RegisterInput{Name: name, Email: email, Password: password, Role: domain.RoleModerator}
	if err := input.Validate(); err != nil {
		return false, apperrors.FromValidation(err)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, apperrors.NewInternalError(err)
	}
	if _, err := s.createUser(ctx, input.Name, input.Email, input.Password, domain.RoleModerator); err != nil {
		return false, err
	}
	return true, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.passwords.Burn(password)
		return nil, apperrors.NewValidationError("Invalid credentials", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	ok, err := s.passwords.Matches(user.PasswordHash, password)
	if err != nil {
		s.logger.Error("stored password hash unreadable", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, apperrors.NewValidationError("Invalid credentials", nil)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError("User already exists", map[string]any{"email": "already registered"})
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}
