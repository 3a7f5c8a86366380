package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "")

	assert.Equal(t, "dev-secret-key", SecretKey())
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "grocery.db", DatabaseDSN())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/grocery")
	t.Setenv("DB_DRIVER", "")

	assert.Equal(t, "s3cr3t", SecretKey())
	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, "postgres://u:p@db:5432/grocery", DatabaseDSN())
}

func TestSQLiteURLIsStripped(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "sqlite://data/shop.db")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, "data/shop.db", DatabaseDSN())
}

func TestSessionTTLFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	assert.Equal(t, 2*time.Hour, SessionTTL())

	t.Setenv("SESSION_TTL", "15m")
	assert.Equal(t, 15*time.Minute, SessionTTL())
}

func TestMergeDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nsecret_key=\"from-file\"\nAPP_PORT=9090\n"), 0o600))

	out := defaultValues()
	require.NoError(t, mergeDotEnv(path, out))

	assert.Equal(t, "from-file", out["SECRET_KEY"])
	assert.Equal(t, "9090", out["APP_PORT"])
}

func TestMergeDotEnvMissingFile(t *testing.T) {
	err := mergeDotEnv(filepath.Join(t.TempDir(), "nope.env"), defaultValues())
	assert.True(t, os.IsNotExist(err))
}

func TestMergeJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage_disk":"s3","ignored":42}`), 0o600))

	out := defaultValues()
	require.NoError(t, mergeJSONConfig(path, out))

	assert.Equal(t, "s3", out["STORAGE_DISK"])
	_, ok := out["IGNORED"]
	assert.False(t, ok)
}
