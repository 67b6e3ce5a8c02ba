package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad_DefaultsAndRequiredSchema(t *testing.T) {
	_, err := Load(newFlags(t), Options{EnvFiles: []string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema source is required")

	cfg, err := Load(newFlags(t, "--schema", "form.json"), Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "form.json", cfg.Schema)
	assert.False(t, cfg.AllowHTTP)
}

func TestLoad_EnvironmentAndFlagPrecedence(t *testing.T) {
	t.Setenv("JSONFORM_SCHEMA", "env.json")
	t.Setenv("JSONFORM_ADDR", ":9000")
	t.Setenv("JSONFORM_TIMEOUT", "3s")
	t.Setenv("JSONFORM_ALLOW_HTTP", "true")
	t.Setenv("JSONFORM_LOG_LEVEL", "debug")

	cfg, err := Load(newFlags(t, "--addr", ":7000"), Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.Schema)
	assert.Equal(t, ":7000", cfg.Addr, "flags win over the environment")
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.AllowHTTP)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JSONFORM_DASHBOARD=dash.json\n"), 0o600))
	t.Setenv("JSONFORM_SCHEMA", "form.json")
	t.Cleanup(func() { _ = os.Unsetenv("JSONFORM_DASHBOARD") })

	cfg, err := Load(nil, Options{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "dash.json", cfg.Dashboard)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "jsonform.yaml")
	require.NoError(t, os.WriteFile(file, []byte("schema: file.json\nlog_format: json\n"), 0o600))

	cfg, err := Load(newFlags(t, "--config", file), Options{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "file.json", cfg.Schema)
	assert.Equal(t, "json", cfg.LogFormat)
}
