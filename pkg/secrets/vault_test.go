package secrets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKVv2Server(t *testing.T, data map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"data": data},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Zero(t, result.Loaded)
}

func TestApplyVaultSecretsSetsEnvironment(t *testing.T) {
	server := newKVv2Server(t, map[string]interface{}{
		"VT_API_KEY":  "from-vault",
		"VT_PORT":     float64(9090),
		"VT_EXISTING": "vault-value",
	})

	t.Setenv("VT_API_KEY", "")
	t.Setenv("VT_PORT", "")
	t.Setenv("VT_EXISTING", "env-value")

	cfg := VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "test-token",
		Mount:     "secret",
		Path:      "prescreen-dashboard/tests",
		KVVersion: 2,
		Timeout:   2 * time.Second,
	}

	result, err := ApplyVaultSecrets(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "from-vault", getenv(t, "VT_API_KEY"))
	assert.Equal(t, "9090", getenv(t, "VT_PORT"))
	assert.Equal(t, "env-value", getenv(t, "VT_EXISTING"))
}

func TestApplyVaultSecretsOverwrite(t *testing.T) {
	server := newKVv2Server(t, map[string]interface{}{"VT_EXISTING": "vault-value"})

	t.Setenv("VT_EXISTING", "env-value")

	cfg := VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "test-token",
		Mount:     "secret",
		Path:      "prescreen-dashboard/tests",
		KVVersion: 2,
		Timeout:   2 * time.Second,
		Overwrite: true,
	}

	result, err := ApplyVaultSecrets(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, "vault-value", getenv(t, "VT_EXISTING"))
}

func TestApplyVaultSecretsIncompleteConfig(t *testing.T) {
	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault configuration incomplete")
}

func TestSecretURL(t *testing.T) {
	url, err := secretURL("http://vault:8200/", "secret", "/prescreen-dashboard/backend", 2)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/data/prescreen-dashboard/backend", url)

	url, err = secretURL("http://vault:8200", "kv", "app", 1)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/kv/app", url)

	_, err = secretURL("", "secret", "app", 2)
	require.Error(t, err)
}

func TestLoadVaultConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "")
	t.Setenv("VAULT_MOUNT", "")
	t.Setenv("VAULT_PATH", "")
	t.Setenv("VAULT_KV_VERSION", "")
	t.Setenv("VAULT_TIMEOUT_MS", "")

	cfg := LoadVaultConfigFromEnv("")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, "prescreen-dashboard/backend", cfg.Path)
	assert.Equal(t, 2, cfg.KVVersion)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	cfg = LoadVaultConfigFromEnv("custom/path")
	assert.Equal(t, "custom/path", cfg.Path)
}

func getenv(t *testing.T, key string) string {
	t.Helper()
	value, ok := os.LookupEnv(key)
	require.True(t, ok, "expected %s to be set", key)
	return value
}
