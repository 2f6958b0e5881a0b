package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/tasklist/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager inspects and creates configuration files.
type Manager struct {
	projectPath   string // Path to the project config file
	globalConfDir string // Path to global config directory (e.g., ~/.config/tasklist)
}

// NewManager creates a new Manager.
func NewManager(projectPath string) *Manager {
	return NewManagerWithGlobalDir(projectPath, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(projectPath, globalConfDir string) *Manager {
	if projectPath == "" {
		projectPath = domain.ProjectConfigName
	}
	return &Manager{
		projectPath:   projectPath,
		globalConfDir: globalConfDir,
	}
}

// GetProjectConfigInfo returns information about the project config file.
func (m *Manager) GetProjectConfigInfo() domain.ConfigInfo {
	return getConfigInfo(m.projectPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

func getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitProjectConfig writes the default template to the project config file.
func (m *Manager) InitProjectConfig() (string, error) {
	return m.projectPath, initConfig(m.projectPath)
}

// InitGlobalConfig writes the default template to the global config file.
func (m *Manager) InitGlobalConfig() (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return path, initConfig(path)
}

// initConfig creates a config file from the template. Existing files are
// never overwritten.
func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	return os.WriteFile(path, []byte(domain.ConfigTemplate()), 0o600)
}
