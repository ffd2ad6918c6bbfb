package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScriptPlugin creates a plugin whose executable is a shell
// script with the given body.
func writeScriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping shell script test on Windows")
	}

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    []string{"execute"},
		},
		Path:       dir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plug := writeScriptPlugin(t, "ok-plugin", `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"hello world"}}
EOF
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plug, &Request{
		Action:  "execute",
		Gesture: "START",
		Frame:   12,
		At:      time.Now(),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("message = %v, want hello world", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plug := writeScriptPlugin(t, "echo-plugin", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plug, &Request{
		Action:  "execute",
		Gesture: "STOP",
		Frame:   7,
		At:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Config:  json.RawMessage(`{"setting":"enabled"}`),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !response.Success {
		t.Error("expected success=true, got false")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	received, ok := data["received"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected 'received' to be an object, got %T", data["received"])
	}
	if received["gesture"] != "STOP" {
		t.Errorf("gesture = %v, want STOP", received["gesture"])
	}
	if received["frame"] != float64(7) {
		t.Errorf("frame = %v, want 7", received["frame"])
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plug := writeScriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	executor := NewExecutor(100 * time.Millisecond)
	_, err := executor.Execute(context.Background(), plug, &Request{
		Action:  "execute",
		Gesture: "1",
	})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plug := writeScriptPlugin(t, "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"something went wrong"}'
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plug, &Request{
		Action:  "execute",
		Gesture: "2",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if response.Success {
		t.Error("expected success=false, got true")
	}
	if response.Error != "something went wrong" {
		t.Errorf("error = %q, want 'something went wrong'", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plug := writeScriptPlugin(t, "bad-plugin", `#!/bin/sh
echo 'not valid json'
`)

	executor := NewExecutor(5 * time.Second)
	if _, err := executor.Execute(context.Background(), plug, &Request{Action: "execute"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plug := writeScriptPlugin(t, "exit-plugin", `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(context.Background(), plug, &Request{Action: "execute"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "something failed") {
		t.Errorf("error should carry stderr output, got: %v", err)
	}
}

func TestNewExecutor_DefaultTimeout(t *testing.T) {
	if got := NewExecutor(0).timeout; got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := NewExecutor(3 * time.Second).timeout; got != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", got)
	}
}
