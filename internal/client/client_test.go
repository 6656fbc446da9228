package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/app"
	"github.com/spec-kit/lostfound-service/internal/client"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

type harness struct {
	t      *testing.T
	server *httptest.Server
	api    *client.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Name: "lostfound-client-test", Version: "test", BasePath: "/api"},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:             "client-test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
		Items: config.ItemsConfig{MutationPolicy: config.MutationPolicyOpen},
	}
	a := app.New(cfg, app.MemoryStores(), zap.NewNop())

	created, err := a.Auth.EnsureModerator(context.Background(), "Mod", "mod@example.com", "modpass")
	require.NoError(t, err)
	require.True(t, created)

	server := httptest.NewServer(adaptor.FiberApp(a.Fiber))
	t.Cleanup(server.Close)
	return &harness{t: t, server: server, api: client.New(server.URL + "/api")}
}

func (h *harness) session(email, password string) *client.Session {
	h.t.Helper()
	s := client.NewSession(h.api, &client.MemoryTokenStore{}, zap.NewNop())
	_, err := s.Login(context.Background(), email, password)
	require.NoError(h.t, err)
	return s
}

func (h *harness) register(name, email string) *client.Session {
	h.t.Helper()
	_, err := h.api.Register(context.Background(), dto.RegisterRequest{Name: name, Email: email, Password: "secret1"})
	require.NoError(h.t, err)
	return h.session(email, "secret1")
}

type recorder struct {
	mu    sync.Mutex
	notes []client.Notification
}

func (r *recorder) Notify(n client.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) last() client.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return client.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func validReport() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		Title:       "Black wallet",
		Description: "Leather wallet found by the vending machines",
		Location:    "Cafeteria",
		Category:    "found",
	}
}

func TestClient_ErrorEnvelopeBecomesDomainError(t *testing.T) {
	h := newHarness(t)

	_, err := h.api.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)

	_, err = h.api.Get(context.Background(), "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestClient_FullLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alice := h.register("Alice", "alice@example.com")
	bob := h.register("Bob", "bob@example.com")
	carol := h.register("Carol", "carol@example.com")
	mod := h.session("mod@example.com", "modpass")

	item, err := alice.API().Report(ctx, validReport())
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusPending, item.Status)
	assert.Equal(t, "Alice", item.ReportedBy.Name)

	pending, err := mod.API().Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := mod.API().Approve(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "Mod", approved.ApprovedBy.Name)

	claimed, err := bob.API().Claim(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.Claimant)
	assert.Equal(t, "Bob", claimed.Claimant.Name)
	assert.NotNil(t, claimed.ClaimDate)

	_, err = carol.API().Claim(ctx, item.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Contains(t, err.Error(), "already claimed")

	history, err := mod.API().History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ItemStatusClaimed, history[2].To)

	_, err = alice.API().History(ctx, item.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestSession_LoadValidatesStoredToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register("Alice", "alice@example.com")

	store := client.NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))
	first := client.NewSession(h.api, store, zap.NewNop())
	_, err := first.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	restored := client.NewSession(h.api, store, zap.NewNop())
	require.NoError(t, restored.Load(ctx))
	user, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, "Alice", user.Name)

	require.NoError(t, store.Save(&client.Credentials{Token: "not-a-jwt"}))
	rejected := client.NewSession(h.api, store, zap.NewNop())
	require.NoError(t, rejected.Load(ctx))
	_, ok = rejected.User()
	assert.False(t, ok)

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSession_ClearSignsOut(t *testing.T) {
	h := newHarness(t)
	s := h.register("Alice", "alice@example.com")

	require.NoError(t, s.Clear())
	_, ok := s.User()
	assert.False(t, ok)

	_, err := s.API().Profile(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestSession_LoadKeepsTokenWhenServerUnreachable(t *testing.T) {
	store := &client.MemoryTokenStore{}
	require.NoError(t, store.Save(&client.Credentials{Token: "kept"}))

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s := client.NewSession(client.New(url), store, zap.NewNop())
	require.Error(t, s.Load(context.Background()))

	creds, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "kept", creds.Token)
}
