// shell-command is a Mudra action plugin that runs a configured
// command when a bound gesture is confirmed. The command and its
// arguments come from the binding config:
//
//	{"command": "notify-send", "args": ["Gesture", "START"]}
//
// The gesture label, frame number and timestamp are exported to the
// command through MUDRA_GESTURE, MUDRA_FRAME and MUDRA_AT.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

const commandTimeout = 10 * time.Second

type request struct {
	Action    string          `json:"action"`
	Gesture   string          `json:"gesture"`
	Frame     int             `json:"frame"`
	At        time.Time       `json:"at"`
	SessionID string          `json:"sessionId"`
	Config    json.RawMessage `json:"config"`
}

type response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type commandConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fail(fmt.Sprintf("invalid request: %v", err))
		return
	}

	var cfg commandConfig
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			fail(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}
	if cfg.Command == "" {
		fail("config.command is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Env = append(os.Environ(),
		"MUDRA_GESTURE="+req.Gesture,
		"MUDRA_FRAME="+strconv.Itoa(req.Frame),
		"MUDRA_AT="+req.At.Format(time.RFC3339Nano),
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		fail(fmt.Sprintf("command failed: %v: %s", err, out))
		return
	}

	data, _ := json.Marshal(map[string]string{"output": string(out)})
	writeResponse(response{Success: true, Data: data})
}

func fail(msg string) {
	writeResponse(response{Success: false, Error: msg})
}

func writeResponse(resp response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
