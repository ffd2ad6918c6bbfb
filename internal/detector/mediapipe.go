package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// mediaPipeIdleShutdown is how long the Python process may sit unused
// before it is stopped to free memory. It restarts lazily on the next
// Detect call.
const mediaPipeIdleShutdown = 30 * time.Second

// MediaPipeDetector implements Detector by driving a Python MediaPipe
// subprocess: length-prefixed JPEG frames on stdin, one JSON line of
// hands per frame on stdout.
type MediaPipeDetector struct {
	config Config

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a MediaPipe detector. The Python process
// is started lazily on first detection, but the sidecar script must be
// locatable now so a misconfigured install fails fast.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if findSidecar("scripts/mediapipe_service.py") == "" {
		return nil, fmt.Errorf("mediapipe_service.py not found")
	}
	return &MediaPipeDetector{config: config}, nil
}

// Detect sends a frame to the subprocess and returns the detected hands.
// Wire hands with fewer than the full 21 landmarks are dropped: a
// partial hand is not geometrizable and must not reach the classifier.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	line, err := d.roundTrip(buf.GetBytes())
	if err != nil {
		return nil, err
	}

	var response struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandLandmarks, 0, len(response.Hands))
	for _, h := range response.Hands {
		if len(h.Points) < NumLandmarks {
			continue
		}
		hands = append(hands, h.toHandLandmarks())
	}

	d.resetIdleTimer()
	return hands, nil
}

// roundTrip writes one length-prefixed JPEG (4 bytes big-endian, then
// the payload) and reads the single JSON line answering it.
func (d *MediaPipeDetector) roundTrip(jpeg []byte) ([]byte, error) {
	msg := make([]byte, 4+len(jpeg))
	binary.BigEndian.PutUint32(msg, uint32(len(jpeg)))
	copy(msg[4:], jpeg)

	if _, err := d.stdin.Write(msg); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return line, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// ensureStarted launches the sidecar if it is not already running.
// Callers hold d.mu.
func (d *MediaPipeDetector) ensureStarted() error {
	if d.cmd != nil {
		return nil
	}

	script := findSidecar("scripts/mediapipe_service.py")
	if script == "" {
		return fmt.Errorf("mediapipe_service.py not found")
	}

	python := findSidecar("venv/bin/python")
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, script,
		fmt.Sprintf("--max-hands=%d", d.config.MaxHands),
		fmt.Sprintf("--min-confidence=%g", d.config.MinConfidence),
		fmt.Sprintf("--min-tracking=%g", d.config.MinTrackingConf),
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Model load diagnostics stay visible.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	return nil
}

// shutdown stops the sidecar. Callers hold d.mu.
func (d *MediaPipeDetector) shutdown() error {
	if d.cmd == nil {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(mediaPipeIdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// findSidecar locates a sidecar file (the detection script or the venv
// interpreter) relative to the working directory, the executable, or
// the per-user install under ~/.mudra.
func findSidecar(rel string) string {
	candidates := []string{rel, filepath.Join("..", rel)}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), rel))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".mudra", rel))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// wireHand is the per-hand structure emitted by the Python service.
type wireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (h wireHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	copy(lm.Points[:], h.Points)
	return lm
}
