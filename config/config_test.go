package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadingNonExistingConfigFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfigFile = filepath.Join(t.TempDir(), "non-existing-file")
	_, err := ReadConfigFile(cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMissingDefaultConfigFileIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg, err := ReadConfigFile(cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.Dir, defaultConfigFilename), cfg.ConfigFile)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(cfgFile, []byte("datadir = /tmp\ncachesize = 7\ndebuglog = true\n"), 0o600))

	cfg := DefaultConfig()
	cfg.ConfigFile = cfgFile
	cfg, err := ReadConfigFile(cfg)
	require.NoError(t, err)
	require.Equal(t, "/tmp", cfg.DataDir)
	require.Equal(t, 7, cfg.CacheSize)
	require.True(t, cfg.DebugLog)
}

func TestReadMalformedConfigFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(cfgFile, []byte("no-such-option = 1\n"), 0o600))

	cfg := DefaultConfig()
	cfg.ConfigFile = cfgFile
	_, err := ReadConfigFile(cfg)
	require.Error(t, err)
}

func TestParseFlagsIgnoresCommands(t *testing.T) {
	cfg, err := ParseFlags(DefaultConfig(), []string{"--debuglog", "--cachesize", "12", "show", "-w", "8", "0xff"})
	require.NoError(t, err)
	require.True(t, cfg.DebugLog)
	require.Equal(t, 12, cfg.CacheSize)
}

func TestSetupConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixbin")
	cfg := DefaultConfig()
	cfg.Dir = dir

	cfg, err := SetupConfig(cfg)
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.Equal(t, filepath.Join(dir, defaultDataDirname), cfg.DataDir)
	require.Equal(t, filepath.Join(dir, defaultLogDirname, defaultLogFilename), cfg.LogFile())
}

func TestSetupConfigRejectsCacheSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.CacheSize = 0
	_, err := SetupConfig(cfg)
	require.Error(t, err)
}

func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("FIXBIN_TEST_DIR", "/var/fixbin")
	require.Equal(t, "/var/fixbin/data", cleanAndExpandPath("$FIXBIN_TEST_DIR/./data/"))
	require.Equal(t, "", cleanAndExpandPath(""))
}
