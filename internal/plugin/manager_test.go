package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeManifest creates a plugin directory with the given manifest
// under root and returns the plugin directory path.
func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()

	dir := filepath.Join(root, m.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	pluginDir := writeManifest(t, tmpDir, Manifest{
		Name:        "test-plugin",
		Version:     "1.0.0",
		Description: "A test plugin",
		Executable:  "test-plugin",
		Actions:     []string{"action1", "action2"},
	})

	manager := NewManager(tmpDir, nil)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "test-plugin" {
		t.Errorf("name = %q, want test-plugin", plugin.Manifest.Name)
	}
	if plugin.Manifest.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", plugin.Manifest.Version)
	}
	if len(plugin.Manifest.Actions) != 2 {
		t.Errorf("expected 2 actions, got %d", len(plugin.Manifest.Actions))
	}
	if plugin.Path != pluginDir {
		t.Errorf("path = %q, want %q", plugin.Path, pluginDir)
	}
	if want := filepath.Join(pluginDir, "test-plugin"); plugin.Executable != want {
		t.Errorf("executable = %q, want %q", plugin.Executable, want)
	}
}

func TestManager_Discover_MultiplePlugins(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"plugin-a", "plugin-b"} {
		writeManifest(t, tmpDir, Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name,
			Actions:    []string{"run"},
		})
	}

	manager := NewManager(tmpDir, nil)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if got := len(manager.List()); got != 2 {
		t.Fatalf("expected 2 plugins, got %d", got)
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	manager := NewManager(t.TempDir(), nil)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on empty dir: %v", err)
	}

	if got := len(manager.List()); got != 0 {
		t.Fatalf("expected 0 plugins, got %d", got)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	tmpDir := t.TempDir()
	manager := NewManager(tmpDir, nil)

	writeManifest(t, tmpDir, Manifest{Name: "first", Version: "1.0.0", Executable: "first"})
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(manager.List()); got != 1 {
		t.Fatalf("expected 1 plugin after first scan, got %d", got)
	}

	// A rescan picks up plugins installed after the first pass.
	writeManifest(t, tmpDir, Manifest{Name: "second", Version: "1.0.0", Executable: "second"})
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() rescan failed: %v", err)
	}
	if got := len(manager.List()); got != 2 {
		t.Fatalf("expected 2 plugins after rescan, got %d", got)
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{
		Name:       "my-plugin",
		Version:    "2.0.0",
		Executable: "my-plugin-bin",
		Actions:    []string{"run"},
	})

	manager := NewManager(tmpDir, nil)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", plugin.Manifest.Version)
	}

	if _, err := manager.Get("nonexistent"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(nonexistent) error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_Discover_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "bad-plugin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte("not valid json"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	manager := NewManager(tmpDir, nil)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	if got := len(manager.List()); got != 0 {
		t.Fatalf("expected malformed manifest to be skipped, got %d plugins", got)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist", nil)

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}
	if got := len(manager.List()); got != 0 {
		t.Fatalf("expected 0 plugins, got %d", got)
	}
}

func TestManager_PluginDir(t *testing.T) {
	manager := NewManager("/path/to/plugins", nil)

	if got := manager.PluginDir(); got != "/path/to/plugins" {
		t.Errorf("PluginDir() = %q, want /path/to/plugins", got)
	}
}
