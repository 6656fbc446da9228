package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

func newAuthService(allowModerator bool) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	cfg := config.AuthConfig{BcryptCost: bcrypt.MinCost, AllowModeratorSignup: allowModerator}
	return NewAuthService(cfg, repository.NewMemoryUserRepository(), tokens, nil), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(false)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: " Ada ", Email: "Ada@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	result, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	claims, err := tokens.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: user.ID, Role: domain.RoleUser}, claims.Identity())

	profile, err := svc.Profile(ctx, claims.Identity())
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newAuthService(false)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@example.com", Password: "secret1"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
		"short password": {Name: "A", Email: "a@example.com", Password: "12345"},
		"unknown role":   {Name: "A", Email: "a@example.com", Password: "secret1", Role: "admin"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, input)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), err)
		})
	}

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "DUP@example.com", Password: "secret2"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestAuthService_ModeratorSignupGate(t *testing.T) {
	ctx := context.Background()

	closed, _ := newAuthService(false)
	user, err := closed.Register(ctx, RegisterInput{Name: "M", Email: "m@example.com", Password: "secret1", Role: domain.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	open, _ := newAuthService(true)
	user, err = open.Register(ctx, RegisterInput{Name: "M", Email: "m@example.com", Password: "secret1", Role: domain.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, user.Role)
}

func TestAuthService_EnsureModeratorIsIdempotent(t *testing.T) {
	svc, _ := newAuthService(false)
	ctx := context.Background()

	created, err := svc.EnsureModerator(ctx, "Morgan", "mod@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureModerator(ctx, "Morgan", "MOD@example.com", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := svc.Login(ctx, "mod@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, result.User.Role)
}
