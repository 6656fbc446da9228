package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ITEMS_MUTATION_POLICY", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, MutationPolicyOpen, cfg.Items.MutationPolicy)
	assert.Equal(t, "/api", cfg.App.BasePath)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Auth.AllowModeratorSignup)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ITEMS_MUTATION_POLICY", "anyone")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
}

func TestLoadOwnerPolicyAndRedis(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ITEMS_MUTATION_POLICY", "OWNER")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_NAME_CACHE_TTL_SECONDS", "30")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, MutationPolicyOwner, cfg.Items.MutationPolicy)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.NameCacheTTL())
}
