package main

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lostfound-service/internal/app"
	"github.com/spec-kit/lostfound-service/internal/client"
	"github.com/spec-kit/lostfound-service/internal/config"
)

func newServer(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Name: "lostfound-cli-test", Version: "test", BasePath: "/api"},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:             "cli-test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
		Items: config.ItemsConfig{MutationPolicy: config.MutationPolicyOpen},
	}
	a := app.New(cfg, app.MemoryStores(), zap.NewNop())
	server := httptest.NewServer(adaptor.FiberApp(a.Fiber))
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	assert.NoError(t, run(nil))
	assert.NoError(t, run([]string{"--help"}))
	assert.ErrorContains(t, run([]string{"teleport"}), "unknown command")
}

func TestRun_SessionPersistsAcrossInvocations(t *testing.T) {
	url := newServer(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	base := []string{"--server", url, "--session-file", sessionFile}

	require.NoError(t, run(append(base, "register",
		"--name", "Alice", "--email", "alice@example.com", "--password", "secret1")))

	creds, err := client.NewFileTokenStore(sessionFile).Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "Alice", creds.User.Name)

	require.NoError(t, run(append(base, "whoami")))
	require.NoError(t, run(append(base, "report",
		"--title", "Red scarf", "--description", "Wool scarf left on a bench",
		"--location", "Main hall", "--category", "Lost")))
	require.NoError(t, run(append(base, "list", "--all")))

	assert.ErrorIs(t, run(append(base, "claim", "missing-item")), errReported)
	assert.ErrorIs(t, run(append(base, "report", "--title", "x", "--description", "short")), errReported)

	require.NoError(t, run(append(base, "logout")))
	assert.ErrorContains(t, run(append(base, "whoami")), "not signed in")
	require.NoError(t, run(append(base, "list")))
}
