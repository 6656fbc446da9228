package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEnsurer struct {
	mock.Mock
}

func (m *mockEnsurer) EnsureModerator(ctx context.Context, name, email, password string) (bool, error) {
	args := m.Called(ctx, name, email, password)
	return args.Bool(0), args.Error(1)
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAndApply(t *testing.T) {
	t.Setenv("SEED_MOD_PASSWORD", "from-env-1")
	path := writeSeed(t, `
moderators:
  - name: Morgan
    email: morgan@example.com
    password: secret1
  - name: Riley
    email: riley@example.com
    password_env: SEED_MOD_PASSWORD
`)

	file, err := Load(path)
	require.NoError(t, err)
	require.Len(t, file.Moderators, 2)

	ensurer := new(mockEnsurer)
	ensurer.On("EnsureModerator", mock.Anything, "Morgan", "morgan@example.com", "secret1").Return(true, nil)
	ensurer.On("EnsureModerator", mock.Anything, "Riley", "riley@example.com", "from-env-1").Return(false, nil)

	require.NoError(t, Apply(context.Background(), file, ensurer, zap.NewNop()))
	ensurer.AssertExpectations(t)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeSeed(t, "admins:\n  - name: x\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyRejectsEmptyPassword(t *testing.T) {
	file := &File{Moderators: []Moderator{{Name: "A", Email: "a@example.com", PasswordEnv: "SEED_UNSET_VARIABLE"}}}
	err := Apply(context.Background(), file, new(mockEnsurer), zap.NewNop())
	assert.ErrorContains(t, err, "empty password")
}
