package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "config.yaml", `
port: "8081"
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
retry:
  retry_number: 4
`)

	os.Unsetenv("PGHOST")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PGPASSWORD", "from-env")

	cfg, err := Load(path, "test-version")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 4, cfg.Retry.RetryNumber)
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "config.yaml", "env: \"test\"\n")

	for _, key := range []string{"PORT", "DB_DRIVER", "RETRY_NUMBER", "RECONNECT_WAIT_TIME", "DB_CONNECT_TIMEOUT", "DB_CREDENTIALS_LOCATION", "AUTH_REQUIRED"} {
		os.Unsetenv(key)
	}

	cfg, err := Load(path, "v")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Retry.RetryNumber)
	assert.Equal(t, time.Second, cfg.Retry.ReconnectWait())
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout())
	assert.False(t, cfg.AuthRequired)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "v")
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "config.yaml", "database:\n  driver: \"oracle\"\n")
	os.Unsetenv("DB_DRIVER")

	_, err := Load(path, "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestLoad_CredentialsFileOverridesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	credsPath := writeFile(t, tmpDir, "postgres_credentials.json",
		`{"host": "pg.internal", "port": 6543, "db_name": "media", "user": "svc", "password": "pw"}`)
	path := writeFile(t, tmpDir, "config.yaml", "credentials_file: \""+credsPath+"\"\n")
	os.Unsetenv("DB_CREDENTIALS_LOCATION")

	cfg, err := Load(path, "v")
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "media", cfg.Database.Database)
	assert.Equal(t, "svc", cfg.Database.User)
	assert.Equal(t, "pw", cfg.Database.Password)
}

func TestLoadCredentials_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadCredentials(filepath.Join(tmpDir, "nope.json"))
	assert.Error(t, err)

	path := writeFile(t, tmpDir, "partial.json", `{"host": "pg"}`)
	_, err = LoadCredentials(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_name")
}

func TestConnectionString_EscapesPassword(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "media",
		Password: "p@ss/word#1",
		Database: "media_db",
		SSLMode:  "disable",
	}

	connStr := cfg.ConnectionString()
	assert.True(t, strings.HasPrefix(connStr, "postgres://media:"))
	assert.Contains(t, connStr, "@db.example.com:5432/media_db?sslmode=disable")
	assert.NotContains(t, connStr, "p@ss/word#1")
}
