package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	AppName          = "ideagraph"
	DefaultStoreFile = "ideas.json"
	DefaultUndoFile  = "deleted_ideas.json"
	DefaultIndexFile = "index.db"
	DefaultLogFile   = "ideagraph.log"
	DefaultAutosave  = 2 * time.Second
	DefaultModel     = "sonnet"
	DefaultLogLevel  = "info"
	DataDirEnv       = "IDEAGRAPH_DATA_DIR"
	AutosaveDelayEnv = "IDEAGRAPH_AUTOSAVE_DELAY"
	ModelEnv         = "IDEAGRAPH_MODEL"
	LogLevelEnv      = "IDEAGRAPH_LOG_LEVEL"
	ConfigFileEnv    = "IDEAGRAPH_CONFIG"
	configFileName   = "config.toml"
)

// Config holds runtime settings for every binary
type Config struct {
	DataDir       string        `toml:"data_dir"`
	AutosaveDelay time.Duration `toml:"-"`
	Model         string        `toml:"model"`
	LogLevel      string        `toml:"log_level"`
}

// fileConfig mirrors the TOML document; durations are kept as strings
type fileConfig struct {
	DataDir       string `toml:"data_dir"`
	AutosaveDelay string `toml:"autosave_delay"`
	Model         string `toml:"model"`
	LogLevel      string `toml:"log_level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		AutosaveDelay: DefaultAutosave,
		Model:         DefaultModel,
		LogLevel:      DefaultLogLevel,
	}
}

// Load builds the configuration from defaults, the TOML file at path (if it
// exists) and environment overrides, in that order. An empty path uses
// FilePath().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = FilePath()
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if fc.DataDir != "" {
		c.DataDir = ExpandHome(fc.DataDir)
	}
	if fc.AutosaveDelay != "" {
		d, err := time.ParseDuration(fc.AutosaveDelay)
		if err != nil {
			return fmt.Errorf("invalid autosave_delay in %s: %w", path, err)
		}
		c.AutosaveDelay = d
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if env := os.Getenv(DataDirEnv); env != "" {
		c.DataDir = ExpandHome(env)
	}
	if env := os.Getenv(AutosaveDelayEnv); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", AutosaveDelayEnv, err)
		}
		c.AutosaveDelay = d
	}
	if env := os.Getenv(ModelEnv); env != "" {
		c.Model = env
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		c.LogLevel = env
	}
	return nil
}

// Validate checks the configuration for unusable values
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory must not be empty")
	}
	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("autosave delay must be positive, got: %s", c.AutosaveDelay)
	}
	return nil
}

// StorePath returns the snapshot collection file
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, DefaultStoreFile)
}

// UndoPath returns the undo slot file
func (c Config) UndoPath() string {
	return filepath.Join(c.DataDir, DefaultUndoFile)
}

// IndexPath returns the SQLite search index
func (c Config) IndexPath() string {
	return filepath.Join(c.DataDir, DefaultIndexFile)
}

// LogPath returns the TUI log file
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, DefaultLogFile)
}

// DefaultDataDir returns $XDG_DATA_HOME/ideagraph, falling back to
// ~/.local/share/ideagraph
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// FilePath returns the config file location. IDEAGRAPH_CONFIG wins over
// $XDG_CONFIG_HOME/ideagraph/config.toml.
func FilePath() string {
	if env := os.Getenv(ConfigFileEnv); env != "" {
		return ExpandHome(env)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, configFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
