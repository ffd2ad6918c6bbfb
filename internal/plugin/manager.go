package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrPluginNotFound is returned when a requested plugin does not exist.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers plugins under a directory and serves them by name.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	log       logrus.FieldLogger
	mu        sync.RWMutex
}

// NewManager creates a Manager over the given plugin directory.
func NewManager(pluginDir string, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
		log:       log.WithField("component", "plugin"),
	}
}

// Discover rescans the plugin directory. Each subdirectory holding a
// plugin.json manifest becomes one plugin; unreadable or malformed
// manifests are skipped with a warning. A missing directory is not an
// error, it just yields no plugins.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifestPath := filepath.Join(pluginPath, "plugin.json")

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			if !os.IsNotExist(err) {
				m.log.WithError(err).WithField("plugin", entry.Name()).Warn("skipping unreadable manifest")
			}
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			m.log.WithError(err).WithField("plugin", entry.Name()).Warn("skipping malformed manifest")
			continue
		}

		m.plugins[manifest.Name] = &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
	}

	m.log.WithField("count", len(m.plugins)).Debug("plugin discovery complete")
	return nil
}

// Get returns a plugin by name, or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return plugin, nil
}

// List returns all discovered plugins.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
