package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	for _, threshold := range []float64{0.5, 1.0, 5.0} {
		md := NewMotionDetector(threshold)
		if md == nil {
			t.Fatal("NewMotionDetector returned nil")
		}

		if md.threshold != threshold {
			t.Errorf("threshold = %f, want %f", md.threshold, threshold)
		}
		if md.initialized {
			t.Error("detector should not be initialized before the first frame")
		}

		md.Close()
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// The first frame only establishes the baseline.
	detected, changePercent := md.Detect(&frame1)
	if detected {
		t.Error("first frame should not detect motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	detected, changePercent = md.Detect(&frame2)
	if detected {
		t.Errorf("identical frames should not detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&blackFrame)

	detected, changePercent := md.Detect(&whiteFrame)
	if !detected {
		t.Errorf("black to white should detect motion, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% when every pixel changed", changePercent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Error("detector should be initialized after first Detect")
	}

	md.Reset()

	if md.initialized {
		t.Error("detector should not be initialized after Reset")
	}
	if !md.prevGray.Empty() {
		t.Error("prevGray should be empty after Reset")
	}

	// The next frame becomes a fresh baseline, not motion.
	detected, _ := md.Detect(&frame)
	if detected {
		t.Error("first frame after Reset should not detect motion")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", md.threshold)
	}

	// Non-positive values are ignored.
	md.SetThreshold(0)
	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after invalid SetThreshold calls", md.threshold)
	}
}

func TestMotionDetector_Close_Multiple(t *testing.T) {
	md := NewMotionDetector(1.0)

	md.Close()
	md.Close()
}
