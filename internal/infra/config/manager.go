package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/hnthread/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	workDir       string // Directory holding .hnthread/
	globalConfDir string // Path to global config directory (e.g., ~/.config/hnthread)
}

// NewManager creates a new Manager.
func NewManager(workDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// GlobalConfigPath returns the global config file path, or "" if unknown.
func (m *Manager) GlobalConfigPath() string {
	if m.globalConfDir == "" {
		return ""
	}
	return filepath.Join(m.globalConfDir, domain.ConfigFileName)
}

// LocalConfigPath returns the local config file path.
func (m *Manager) LocalConfigPath() string {
	return domain.LocalConfigPath(m.workDir)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	path := m.GlobalConfigPath()
	if path == "" {
		return errors.New("global config directory not available")
	}
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
