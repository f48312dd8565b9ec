// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2017-2019 The Spacemesh developers

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/spacemeshos/fixbin/store"
)

const (
	defaultConfigFilename = "fixbin.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "fixbin.log"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
)

var (
	defaultDir        = appDataDir()
	defaultConfigFile = filepath.Join(defaultDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultDir, defaultLogDirname)
)

// Config defines the global options of fixbin.
//
// Options are taken, in increasing order of precedence, from DefaultConfig,
// the ini configuration file and the command line.
type Config struct {
	Dir            string `long:"dir" description:"The base directory that contains fixbin's data, logs, configuration file, etc."`
	ConfigFile     string `short:"c" long:"configfile" description:"Path to configuration file"`
	DataDir        string `short:"b" long:"datadir" description:"The directory holding the value store"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	DebugLog       bool   `long:"debuglog" description:"Enable debug logs"`
	JSONLog        bool   `long:"jsonlog" description:"Whether to log in JSON format"`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`
	CacheSize      int    `long:"cachesize" description:"Number of values kept in the store's in-memory cache"`
}

// DefaultConfig returns a config with default hardcoded values.
func DefaultConfig() *Config {
	return &Config{
		Dir:            defaultDir,
		ConfigFile:     defaultConfigFile,
		DataDir:        defaultDataDir,
		LogDir:         defaultLogDir,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		CacheSize:      store.DefaultCacheSize,
	}
}

// ParseFlags reads the global options from args.
// Unknown options and commands are left for a later full parse.
func ParseFlags(preCfg *Config, args []string) (*Config, error) {
	parser := flags.NewParser(preCfg, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return preCfg, nil
}

// ReadConfigFile reads values from the ini config file.
// A missing default config file is not an error.
func ReadConfigFile(preCfg *Config) (*Config, error) {
	preCfg.Dir = cleanAndExpandPath(preCfg.Dir)
	preCfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.Dir != defaultDir && preCfg.ConfigFile == defaultConfigFile {
		preCfg.ConfigFile = filepath.Join(preCfg.Dir, defaultConfigFilename)
	}
	isDefault := preCfg.ConfigFile == defaultConfigFile ||
		preCfg.ConfigFile == filepath.Join(preCfg.Dir, defaultConfigFilename)

	cfg := preCfg
	if err := flags.IniParse(preCfg.ConfigFile, cfg); err != nil {
		var iniError *flags.IniError
		switch {
		case errors.As(err, &iniError):
			return nil, err
		case errors.Is(err, fs.ErrNotExist) && isDefault:
			return cfg, nil
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return cfg, nil
}

// SetupConfig creates fixbin's directories and expands all paths.
func SetupConfig(cfg *Config) (*Config, error) {
	// If the provided directory is not the default, we'll modify the
	// path to all of the files and directories that will live within it.
	if cfg.Dir != defaultDir {
		if cfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(cfg.Dir, defaultDataDirname)
		}
		if cfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.Dir, defaultLogDirname)
		}
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		// Show a nicer error message if it's because a symlink is
		// linked to a directory that does not exist (probably because
		// it's not mounted).
		var pathError *fs.PathError
		if errors.As(err, &pathError) && os.IsExist(err) {
			if link, lerr := os.Readlink(pathError.Path); lerr == nil {
				err = fmt.Errorf("is symlink %s -> %s mounted?", pathError.Path, link)
			}
		}
		return nil, fmt.Errorf("failed to create fixbin directory: %w", err)
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", cfg.CacheSize)
	}
	return cfg, nil
}

// LogFile is the path of the rotated log file.
func (cfg *Config) LogFile() string {
	if cfg.LogDir == "" {
		return ""
	}
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

func appDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".fixbin")
	}
	return ".fixbin"
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		user, err := user.Current()
		if err == nil {
			homeDir = user.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
