package domain

import (
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigTemplate returns the commented default configuration file.
func ConfigTemplate() string {
	return configTemplateContent
}

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Storage  StorageConfig `toml:"storage"`
	Server   ServerConfig  `toml:"server"`
	Log      LogConfig     `toml:"log"`
}

// StorageConfig holds settings from the [storage] section.
type StorageConfig struct {
	Path   string `toml:"path"`   // Task file; relative paths resolve against the data dir
	Strict bool   `toml:"strict"` // Report save failures instead of only logging them
}

// ServerConfig holds settings from the [server] section.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	SecretKey       string        `toml:"secret_key"` // Base64 AES key for cookie encryption
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	SeedExamples    bool          `toml:"seed_examples"` // Create sample tasks when the store is empty
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level    string `toml:"level"` // debug, info, warn, error
	File     string `toml:"file"`  // Optional log file path
	Requests bool   `toml:"requests"`
}

// Default configuration values.
const (
	DefaultStoreFileName   = "tasks_data.json"
	DefaultAddr            = ":5000"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// File and directory names.
const (
	AppDirName        = "tasklist"
	ConfigFileName    = "config.toml"
	ProjectConfigName = "tasklist.toml"
	EnvFileName       = ".env"
)

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: DefaultStoreFileName,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
			SeedExamples:    true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ResolveStorePath returns the absolute store path. Relative paths are
// joined to dataDir.
func (c *Config) ResolveStorePath(dataDir string) string {
	path := c.Storage.Path
	if path == "" {
		path = DefaultStoreFileName
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}

// DefaultConfigHome returns XDG_CONFIG_HOME or ~/.config, or "" when neither
// can be determined.
func DefaultConfigHome() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return configHome
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// ErrConfigExists is returned when initializing a config file that already exists.
var ErrConfigExists = errors.New("config file already exists")

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// LoadConfigOptions selects which sources Load consults.
type LoadConfigOptions struct {
	IgnoreGlobal  bool
	IgnoreProject bool
	IgnoreEnv     bool
}

// Validate checks values that cannot be corrected by falling back to a default.
func (c *Config) Validate() error {
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative: %s", c.Server.ShutdownTimeout)
	}
	if c.Server.SecretKey != "" {
		if _, err := DecodeSecretKey(c.Server.SecretKey); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSecretKey decodes a base64 cookie encryption key. The key must be
// 16, 24 or 32 bytes long.
func DecodeSecretKey(key string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("server.secret_key is not valid base64: %w", err)
	}
	switch len(raw) {
	case 16, 24, 32:
		return raw, nil
	default:
		return nil, fmt.Errorf("server.secret_key must decode to 16, 24 or 32 bytes, got %d", len(raw))
	}
}
