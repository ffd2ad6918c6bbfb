package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	for _, deviceID := range []int{0, 1, 2} {
		cam := NewCamera(deviceID)
		if cam == nil {
			t.Fatal("NewCamera returned nil")
		}

		// Cameras start at the idle frame rate and closed.
		if got := cam.FPS(); got != IdleFPS {
			t.Errorf("FPS() = %d, want idle default %d", got, IdleFPS)
		}
		if cam.IsOpen() {
			t.Errorf("camera %d should not be running initially", deviceID)
		}
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name string
		fps  int
		want int
	}{
		{"active rate", ActiveFPS, ActiveFPS},
		{"arbitrary rate", 30, 30},
		{"minimum rate", 1, 1},
		{"zero keeps previous", 0, 1},
		{"negative keeps previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.want {
				t.Errorf("FPS() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCamera_ClosedBehavior(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() on closed camera error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on never-opened camera error = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("camera not available: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if frame.Empty() {
			t.Error("ReadFrame() returned an empty frame")
		}
		if frame.Cols() != DefaultWidth || frame.Rows() != DefaultHeight {
			// Some devices ignore the requested resolution.
			t.Logf("frame is %dx%d, requested %dx%d", frame.Cols(), frame.Rows(), DefaultWidth, DefaultHeight)
		}
		frame.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
