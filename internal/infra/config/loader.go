// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/tasklist/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file settings.
const (
	EnvStore     = "TASKLIST_STORE"
	EnvAddr      = "TASKLIST_ADDR"
	EnvLogLevel  = "TASKLIST_LOG_LEVEL"
	EnvSecretKey = "SECRET_KEY"
)

// Loader loads configuration from TOML files, a .env file and the
// environment. Precedence: default <- global <- project <- environment.
type Loader struct {
	getenv        func(string) string
	globalConfDir string // e.g. ~/.config/tasklist
	projectPath   string // e.g. ./tasklist.toml
	envFile       string // e.g. ./.env
}

// NewLoader creates a Loader for the given project config file.
// An empty projectPath means ./tasklist.toml.
func NewLoader(projectPath string) *Loader {
	return NewLoaderWithGlobalDir(projectPath, defaultGlobalConfigDir())
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(projectPath, globalConfDir string) *Loader {
	if projectPath == "" {
		projectPath = domain.ProjectConfigName
	}
	return &Loader{
		getenv:        os.Getenv,
		globalConfDir: globalConfDir,
		projectPath:   projectPath,
		envFile:       filepath.Join(filepath.Dir(projectPath), domain.EnvFileName),
	}
}

// WithEnv replaces the environment lookup. Used by tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := domain.DefaultConfigHome()
	if configHome == "" {
		return ""
	}
	return filepath.Dir(domain.GlobalConfigPath(configHome))
}

// GlobalPath returns the global config file path, or "" if unknown.
func (l *Loader) GlobalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// ProjectPath returns the project config file path.
func (l *Loader) ProjectPath() string {
	return l.projectPath
}

// Load returns the merged configuration from every source.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if !opts.IgnoreGlobal && l.GlobalPath() != "" {
		if err := l.applyFile(cfg, l.GlobalPath()); err != nil {
			return nil, err
		}
	}
	if !opts.IgnoreProject {
		if err := l.applyFile(cfg, l.projectPath); err != nil {
			return nil, err
		}
	}
	if !opts.IgnoreEnv {
		if err := l.applyEnv(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile merges one TOML file into cfg. A missing file is skipped.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	warnings, err := applyRaw(cfg, raw)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	for _, w := range warnings {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s", path, w))
	}
	return nil
}

// applyEnv applies environment overrides. Values from the .env file are
// used only for variables the real environment leaves unset.
func (l *Loader) applyEnv(cfg *domain.Config) error {
	dotenv, err := godotenv.Read(l.envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", l.envFile, err)
	}
	lookup := func(key string) string {
		if v := l.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if v := lookup(EnvStore); v != "" {
		cfg.Storage.Path = v
	}
	if v := lookup(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := lookup(EnvSecretKey); v != "" {
		cfg.Server.SecretKey = v
	}
	return nil
}

// applyRaw merges a decoded TOML document into cfg and collects warnings
// for unknown keys and mistyped values.
func applyRaw(cfg *domain.Config, raw map[string]any) ([]string, error) {
	var warnings []string
	typeWarning := func(section, key, want string) {
		warnings = append(warnings, fmt.Sprintf("invalid value for [%s].%s: expected %s", section, key, want))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "storage":
			for k, v := range m {
				switch k {
				case "path":
					if s, ok := v.(string); ok {
						cfg.Storage.Path = s
					} else {
						typeWarning(section, k, "string")
					}
				case "strict":
					if b, ok := v.(bool); ok {
						cfg.Storage.Strict = b
					} else {
						typeWarning(section, k, "boolean")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [storage]: %s", k))
				}
			}
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						cfg.Server.Addr = s
					} else {
						typeWarning(section, k, "string")
					}
				case "secret_key":
					if s, ok := v.(string); ok {
						cfg.Server.SecretKey = s
					} else {
						typeWarning(section, k, "string")
					}
				case "seed_examples":
					if b, ok := v.(bool); ok {
						cfg.Server.SeedExamples = b
					} else {
						typeWarning(section, k, "boolean")
					}
				case "shutdown_timeout":
					d, err := parseDuration(v)
					if err != nil {
						return nil, fmt.Errorf("[server].shutdown_timeout: %w", err)
					}
					cfg.Server.ShutdownTimeout = d
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [server]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						cfg.Log.Level = s
					} else {
						typeWarning(section, k, "string")
					}
				case "file":
					if s, ok := v.(string); ok {
						cfg.Log.File = s
					} else {
						typeWarning(section, k, "string")
					}
				case "requests":
					if b, ok := v.(bool); ok {
						cfg.Log.Requests = b
					} else {
						typeWarning(section, k, "boolean")
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	return warnings, nil
}

// parseDuration accepts a Go duration string ("10s") or a number of seconds.
func parseDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	case int64:
		return time.Duration(d) * time.Second, nil
	case float64:
		return time.Duration(d * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("expected duration string or seconds, got %T", v)
	}
}
