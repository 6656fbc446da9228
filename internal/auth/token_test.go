package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleModerator)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: "user-1", Role: domain.RoleModerator}, claims.Identity())
}

func TestTokenManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	token, _, err := issuer.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("secret-a", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("user-1", domain.Role("admin"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func newGuardedApp(tm *TokenManager, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	handlers := append([]fiber.Handler{NewAuthMiddleware(tm).Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.SendString(identity.ID)
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	userToken, _, err := tm.GenerateToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	modToken, _, err := tm.GenerateToken("mod-1", domain.RoleModerator)
	require.NoError(t, err)

	app := newGuardedApp(tm, RequireRole(domain.RoleModerator))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "user lacks role", header: "Bearer " + userToken, status: http.StatusForbidden},
		{name: "moderator allowed", header: "Bearer " + modToken, status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
