package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minishop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "ENV", "LOG_LEVEL", "LOG_OUTPUT", "LOG_FILE", "HTTP_ADDR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "ENV", "LOG_LEVEL", "LOG_OUTPUT", "LOG_FILE", "HTTP_ADDR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
service: storefront
env: staging
log:
  level: debug
  output: stdout
http:
  addr: ":9090"
wait_for_key: false
`)
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.Service)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.WaitForKey)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open config file")

	_, err = Load(writeFile(t, "unknown_key: 1\n"))
	assert.ErrorContains(t, err, "failed to decode config file")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"HTTP_ADDR": ":8080", "LOG_FILE": "/tmp/minishop.log"}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/minishop.log", cfg.Log.File)
	assert.Equal(t, "minishop", cfg.Service)
}
