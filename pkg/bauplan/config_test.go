package bauplan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfileFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const testProfiles = `
profiles:
  default:
    api_key: sk-default
  prod:
    api_key: sk-prod
    api_endpoint: https://api.prod.example.com
  broken:
    api_endpoint: https://no-key.example.com
`

func TestResolveCredentialAPIKeyOverride(t *testing.T) {
	// No profile file needed when the key is given directly.
	t.Setenv("BAUPLAN_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("BAUPLAN_API_ENDPOINT", "")

	key, endpoint, err := resolveCredential(Config{APIKey: "sk-override"})
	require.NoError(t, err)
	assert.Equal(t, "sk-override", key)
	assert.Equal(t, defaultEndpoint, endpoint)
}

func TestResolveCredentialNamedProfile(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", writeProfileFile(t, testProfiles))
	t.Setenv("BAUPLAN_API_ENDPOINT", "")

	key, endpoint, err := resolveCredential(Config{Profile: "prod"})
	require.NoError(t, err)
	assert.Equal(t, "sk-prod", key)
	assert.Equal(t, "https://api.prod.example.com", endpoint)
}

func TestResolveCredentialDefaultProfile(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", writeProfileFile(t, testProfiles))
	t.Setenv("BAUPLAN_API_ENDPOINT", "")

	key, endpoint, err := resolveCredential(Config{})
	require.NoError(t, err)
	assert.Equal(t, "sk-default", key)
	assert.Equal(t, defaultEndpoint, endpoint)
}

func TestResolveCredentialEndpointEnvOverride(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", writeProfileFile(t, testProfiles))
	t.Setenv("BAUPLAN_API_ENDPOINT", "http://localhost:9999")

	_, endpoint, err := resolveCredential(Config{Profile: "prod"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", endpoint, "environment beats the profile endpoint")
}

func TestResolveCredentialUnknownProfile(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", writeProfileFile(t, testProfiles))

	_, _, err := resolveCredential(Config{Profile: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "nope" not found`)
}

func TestResolveCredentialProfileWithoutKey(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", writeProfileFile(t, testProfiles))

	_, _, err := resolveCredential(Config{Profile: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no api_key")
}

func TestResolveCredentialMissingFile(t *testing.T) {
	t.Setenv("BAUPLAN_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))

	_, _, err := resolveCredential(Config{Profile: "prod"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading profile file")
}
