package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfigState(t *testing.T) {
	t.Helper()
	cfgFile = ""
	ClearConfigCache()
	t.Cleanup(func() {
		cfgFile = ""
		ClearConfigCache()
	})
}

func TestLoadConfigs_Defaults(t *testing.T) {
	resetConfigState(t)

	cfg, err := LoadConfigs(nil, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(200000), cfg.MaxBytes)
	assert.Equal(t, 10, cfg.TopK)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.UseIgnoreFile)
	assert.Equal(t, "127.0.0.1:8765", cfg.HTTPAddr)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Empty(t, cfg.Root)
}

func TestLoadConfigs_YAMLFileInWorkingDir(t *testing.T) {
	resetConfigState(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName+".yml"), []byte(`
root: /srv/project
max_bytes: 4096
top_k: 3
ignore_patterns:
  - "*.log"
  - "tmp/"
`), 0o644))

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project", cfg.Root)
	assert.Equal(t, int64(4096), cfg.MaxBytes)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, []string{"*.log", "tmp/"}, cfg.IgnorePatterns)
}

func TestLoadConfigs_ExplicitJSONFile(t *testing.T) {
	resetConfigState(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"top_k": 7, "access_token": "s3cret"}`), 0o644))
	cfgFile = path

	cfg, err := LoadConfigs(nil, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, "s3cret", cfg.AccessToken)
}

func TestLoadConfigs_MissingExplicitFile(t *testing.T) {
	resetConfigState(t)
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := LoadConfigs(nil, t.TempDir())
	assert.Error(t, err)
}

func TestLoadConfigs_EnvOverridesFile(t *testing.T) {
	resetConfigState(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName+".yaml"), []byte("top_k: 3\n"), 0o644))
	t.Setenv("WSENGINE_TOP_K", "12")
	t.Setenv("WSENGINE_LOG_LEVEL", "debug")

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.TopK)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigs_ChangedFlagsWin(t *testing.T) {
	resetConfigState(t)
	t.Setenv("WSENGINE_LOG_LEVEL", "warn")
	rootCmd := &cobra.Command{Use: "test"}
	InitFlags(rootCmd)
	require.NoError(t, rootCmd.PersistentFlags().Parse([]string{"--log-level", "error"}))

	cfg, err := LoadConfigs(rootCmd, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "dracula", cfg.Theme)
}

func TestLoadConfigWithCache(t *testing.T) {
	resetConfigState(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_k: 3\n"), 0o644))

	first, err := LoadConfigWithCache(nil, dir)
	require.NoError(t, err)
	second, err := LoadConfigWithCache(nil, dir)
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("top_k: 4\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := LoadConfigWithCache(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, third.TopK)

	InvalidateConfigCache(path)
	fourth, err := LoadConfigWithCache(nil, dir)
	require.NoError(t, err)
	assert.NotSame(t, third, fourth)
}

func TestGetConfigFileType(t *testing.T) {
	assert.Equal(t, "json", GetConfigFileType("a.json"))
	assert.Equal(t, "yaml", GetConfigFileType("a.yaml"))
	assert.Equal(t, "yaml", GetConfigFileType("a.yml"))
	assert.Equal(t, "", GetConfigFileType("a.toml"))
}
