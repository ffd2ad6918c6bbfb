package detector

import "gocv.io/x/gocv"

// Detector is the interface to the external hand landmark model.
type Detector interface {
	// Detect analyzes a video frame and returns the detected hands.
	// An empty slice means no hand was present; an error means the
	// detector failed for this frame and the caller should treat it as
	// a recoverable per-frame failure.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detection options passed to the landmark model.
type Config struct {
	// MaxHands is the maximum number of hands to detect. The recognizer
	// only classifies the first hand, so the default is 1.
	MaxHands int

	// MinConfidence is the minimum detection confidence (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the detection defaults used by the recognizer.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.6,
		MinTrackingConf: 0.6,
	}
}
