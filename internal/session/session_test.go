package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgectl/internal/logging"
	"edgectl/internal/session"
)

func newFileStore(t *testing.T) (*session.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.json")
	return session.NewFileStore(path, logging.NewNop()), path
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store, _ := newFileStore(t)
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, path := newFileStore(t)
	want := session.Info{Username: "admin", Permissions: []string{"channels:read", "system:restart"}, Token: "tok-1"}

	require.NoError(t, store.Save(want))

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".session-", "temp file left behind")
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, _ := newFileStore(t)
	require.NoError(t, store.Save(session.Info{Username: "a", Token: "one"}))
	require.NoError(t, store.Save(session.Info{Username: "b", Token: "two"}))

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "b", got.Username)
	assert.Equal(t, "two", got.Token)
}

func TestFileStoreSaveRejectsEmptyToken(t *testing.T) {
	store, path := newFileStore(t)
	assert.Error(t, store.Save(session.Info{Username: "admin"}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreSelfHeals(t *testing.T) {
	records := map[string]string{
		"not json":        "{username:",
		"empty object":    "{}",
		"empty token":     `{"username":"admin","permissions":[],"token":""}`,
		"blank token":     `{"username":"admin","token":"   "}`,
		"wrong type":      `{"token":42}`,
		"json array":      `["token"]`,
		"empty file":      ``,
		"nested no token": `{"data":{"username":"admin"}}`,
	}
	for name, content := range records {
		t.Run(name, func(t *testing.T) {
			store, path := newFileStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, ok := store.Load()
			assert.False(t, ok)

			_, err := os.Stat(path)
			assert.True(t, os.IsNotExist(err), "expected record to be removed")
		})
	}
}

func TestFileStoreAcceptsNestedToken(t *testing.T) {
	store, path := newFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	record := `{"code":"0","msg":"ok","data":{"username":"ops","token":"nested","permissions":["*"]}}`
	require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "nested", got.Token)
	assert.Equal(t, "ops", got.Username)
	assert.True(t, got.HasPermission("anything"))
}

func TestFileStoreClear(t *testing.T) {
	store, path := newFileStore(t)
	store.Clear()

	require.NoError(t, store.Save(session.Info{Token: "tok"}))
	store.Clear()

	_, ok := store.Load()
	assert.False(t, ok)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()
	_, ok := store.Load()
	assert.False(t, ok)

	perms := []string{"channels:read"}
	require.NoError(t, store.Save(session.Info{Username: "admin", Permissions: perms, Token: "tok"}))
	perms[0] = "mutated"

	got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, []string{"channels:read"}, got.Permissions)

	got.Permissions[0] = "mutated"
	again, _ := store.Load()
	assert.Equal(t, "channels:read", again.Permissions[0])

	assert.Error(t, store.Save(session.Info{Username: "x"}))
	store.Clear()
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestInfoExpiresAt(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "admin",
		"exp":      exp.Unix(),
	}).SignedString([]byte("gateway-secret"))
	require.NoError(t, err)

	got, ok := session.Info{Token: token}.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)

	_, ok = session.Info{Token: "opaque-token"}.ExpiresAt()
	assert.False(t, ok)
	_, ok = session.Info{}.ExpiresAt()
	assert.False(t, ok)
}

func TestInfoHasPermission(t *testing.T) {
	info := session.Info{Permissions: []string{"channels:read"}}
	assert.True(t, info.HasPermission("channels:read"))
	assert.False(t, info.HasPermission("system:restart"))
}
