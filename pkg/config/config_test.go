package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
controlPlaneEndpoint: https://cluster.region.kusto.windows.net
database: NetDefaultDB
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.DefaultRefreshInterval())
	assert.Equal(t, 15*time.Minute, cfg.FailureRefreshInterval())
	assert.Equal(t, 10*time.Minute, cfg.UploadTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRespectsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, `
controlPlaneEndpoint: https://cluster.region.kusto.windows.net
database: NetDefaultDB
defaultRefreshInterval: 60000
failureRefreshInterval: 5000
uploadTimeoutMinutes: 2
log:
  level: debug
  jsonOutput: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.DefaultRefreshInterval())
	assert.Equal(t, 5*time.Second, cfg.FailureRefreshInterval())
	assert.Equal(t, 2*time.Minute, cfg.UploadTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSONOutput)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
