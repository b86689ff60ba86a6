package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: scan-dashboard
api:
  base_url: https://api.example.com/api
token_store:
  backend: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30000, cfg.API.Timeout)
	assert.Equal(t, "/auth/refresh/", cfg.API.RefreshPath)
	assert.Equal(t, TokenStoreMemory, cfg.TokenStore.Backend)
	assert.Equal(t, "scan_dashboard:auth", cfg.TokenStore.KeyPrefix)
	assert.Equal(t, SnapshotStatic, cfg.Snapshot.Source)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "scan-dashboard", cfg.Observability.ServiceName)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.API.Timeout))
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_SCAN_REDIS_ADDR", "127.0.0.1:6390")

	path := writeConfig(t, `
token_store:
  backend: redis
database:
  redis:
    address: ${TEST_SCAN_REDIS_ADDR}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6390", cfg.Database.Redis.Address)
}

func TestLoadFromFile_EnvironmentOverride(t *testing.T) {
	t.Setenv("SCAN_API_BASE_URL", "https://override.example.com")

	path := writeConfig(t, `
api:
  base_url: https://api.example.com/api
token_store:
  backend: memory
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.API.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name: "non http base url",
			body: `
api:
  base_url: ftp://example.com
`,
			errMsg: "api.base_url must be an http(s) URL",
		},
		{
			name: "redis store without address",
			body: `
token_store:
  backend: redis
`,
			errMsg: "database.redis.address is required",
		},
		{
			name: "unknown token store",
			body: `
token_store:
  backend: keychain
`,
			errMsg: `token_store.backend "keychain" is not supported`,
		},
		{
			name: "file snapshot without path",
			body: `
token_store:
  backend: memory
snapshot:
  source: file
`,
			errMsg: "snapshot.path is required",
		},
		{
			name: "postgres snapshot without host",
			body: `
token_store:
  backend: memory
snapshot:
  source: postgres
`,
			errMsg: "database.postgres.host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "scan", Password: "pw", Database: "inventory", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=scan password=pw dbname=inventory sslmode=disable", p.GetDSN())
}
