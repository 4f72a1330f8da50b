package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv provides the keys without which Load refuses to start.
func setRequiredEnv(t *testing.T) {
	t.Setenv("SCOREHOOK_CRM_BASE_URL", "https://crm.example.com/api")
	t.Setenv("SCOREHOOK_CRM_USERNAME", "api-user")
	t.Setenv("SCOREHOOK_CRM_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.CRM.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Scoring.Delay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingRequired(t *testing.T) {
	// Clear the required keys regardless of the host environment.
	t.Setenv("SCOREHOOK_CRM_BASE_URL", "")
	t.Setenv("SCOREHOOK_CRM_USERNAME", "")
	t.Setenv("SCOREHOOK_CRM_PASSWORD", "")

	_, err := Load("")
	require.Error(t, err)

	// Every missing key must be named in one error.
	assert.Contains(t, err.Error(), "crm.base_url")
	assert.Contains(t, err.Error(), "crm.username")
	assert.Contains(t, err.Error(), "crm.password")
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 4100
  read_timeout: 5s
crm:
  base_url: https://crm.example.com/api
  username: file-user
  password: file-pass
  timeout: 3s
scoring:
  delay: 2s
logging:
  level: debug
  format: text
cors:
  allowed_origins:
    - https://app.example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://crm.example.com/api", cfg.CRM.BaseURL)
	assert.Equal(t, "file-user", cfg.CRM.Username)
	assert.Equal(t, "file-pass", cfg.CRM.Password)
	assert.Equal(t, 3*time.Second, cfg.CRM.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Scoring.Delay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	content := `
server:
  port: 4100
crm:
  base_url: https://crm.example.com/api
  username: file-user
  password: file-pass
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("SCOREHOOK_CRM_USERNAME", "env-user")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-user", cfg.CRM.Username, "environment must win over the file")
	assert.Equal(t, 4100, cfg.Server.Port, "untouched file values must survive")
}

func TestDurationFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCOREHOOK_SCORING_DELAY", "250ms")
	t.Setenv("SCOREHOOK_SERVER_PORT", "8090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Scoring.Delay)
	assert.Equal(t, 8090, cfg.Server.Port)
}
