package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface. It
// returns either a fixed result (SetHands/SetError) or, when a script is
// set, one scripted result per Detect call.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	script []ScriptedFrame
	cursor int
	calls  int
}

// ScriptedFrame is one Detect result in a scripted sequence.
type ScriptedFrame struct {
	Hands []HandLandmarks
	Err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by every Detect call. Clears any script.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.script = nil
}

// SetError sets the error returned by every Detect call. Clears any script.
func (m *MockDetector) SetError(err error) {
	m.err = err
	m.script = nil
}

// SetScript sets a per-call sequence of results. Once the script is
// exhausted, Detect keeps returning the final frame.
func (m *MockDetector) SetScript(frames []ScriptedFrame) {
	m.script = frames
	m.cursor = 0
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured or scripted result.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++

	if len(m.script) > 0 {
		f := m.script[m.cursor]
		if m.cursor < len(m.script)-1 {
			m.cursor++
		}
		return f.Hands, f.Err
	}

	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Pose fixtures.
//
// Coordinates are normalized image coordinates (y grows downward). Each
// fixture is built to sit clearly on one side of the geometry tolerances
// so the feature and classifier tests exercise real landmark input, not
// hand-assembled flags. Finger columns for a palm facing the camera run
// index..pinky from x=0.55 down to x=0.40 with the wrist at (0.50, 0.80).

// extendedFinger lays out a straightened finger pointing up from its MCP.
func extendedFinger(h *HandLandmarks, mcp int, x, mcpY float64) {
	h.Points[mcp] = Point3D{X: x, Y: mcpY}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.52} // PIP
	h.Points[mcp+2] = Point3D{X: x, Y: 0.43} // DIP
	h.Points[mcp+3] = Point3D{X: x, Y: 0.34} // tip
}

// curledFinger lays out a folded finger: the tip drops back below the
// PIP joint, toward the palm.
func curledFinger(h *HandLandmarks, mcp int, x, mcpY float64) {
	h.Points[mcp] = Point3D{X: x, Y: mcpY}
	h.Points[mcp+1] = Point3D{X: x, Y: mcpY - 0.02, Z: -0.03}   // PIP
	h.Points[mcp+2] = Point3D{X: x - 0.03, Y: mcpY + 0.02, Z: -0.02} // DIP
	h.Points[mcp+3] = Point3D{X: x - 0.05, Y: mcpY + 0.04, Z: -0.01} // tip
}

// foldedThumb lays out a thumb tucked against the palm of a right hand.
func foldedThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	h.Points[ThumbMCP] = Point3D{X: 0.55, Y: 0.71}
	h.Points[ThumbIP] = Point3D{X: 0.54, Y: 0.69}
	h.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.67}
}

// facingPalmFingers lays out the four finger columns of a right palm
// facing the camera, extending the first count fingers (index first) and
// curling the rest.
func facingPalmFingers(h *HandLandmarks, count int) {
	cols := []struct {
		mcp  int
		x, y float64
	}{
		{IndexMCP, 0.55, 0.62},
		{MiddleMCP, 0.50, 0.64},
		{RingMCP, 0.45, 0.66},
		{PinkyMCP, 0.40, 0.68},
	}
	for i, c := range cols {
		if i < count {
			extendedFinger(h, c.mcp, c.x, c.y)
		} else {
			curledFinger(h, c.mcp, c.x, c.y)
		}
	}
}

// ThumbsUpLandmarks returns a right hand making a thumbs-up: thumb
// extended and pointing up, all other fingers curled. Classifies START.
func ThumbsUpLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.74}
	h.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.66}
	h.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.58}
	h.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.55}

	facingPalmFingers(&h, 0)
	return h
}

// OpenPalmLandmarks returns a right hand with all five fingers extended
// and the palm facing the camera. Classifies STOP.
func OpenPalmLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb extended laterally, toward the index side of the image.
	h.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.38, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.33, Y: 0.70}
	h.Points[ThumbTip] = Point3D{X: 0.27, Y: 0.68}

	facingPalmFingers(&h, 4)
	return h
}

// OpenPalmAwayLandmarks returns a left hand with all five fingers
// extended but the back of the hand toward the camera: the index and
// pinky columns are mirrored, flipping the palm normal. Classifies FIVE.
func OpenPalmAwayLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Left", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.67, Y: 0.70}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.68}

	extendedFinger(&h, IndexMCP, 0.45, 0.62)
	extendedFinger(&h, MiddleMCP, 0.50, 0.64)
	extendedFinger(&h, RingMCP, 0.55, 0.66)
	extendedFinger(&h, PinkyMCP, 0.60, 0.68)
	return h
}

// DigitLandmarks returns a right hand with the thumb folded and count of
// the remaining fingers extended, index first. Classifies the digit
// equal to count for count in 1..4.
func DigitLandmarks(count int) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	foldedThumb(&h)
	facingPalmFingers(&h, count)
	return h
}

// SidewaysThumbLandmarks returns a right hand with the thumb extended
// horizontally and all fingers curled: extended but not pointing up, so
// no rule matches. Classifies NONE.
func SidewaysThumbLandmarks() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	h.Points[ThumbCMC] = Point3D{X: 0.46, Y: 0.78}
	h.Points[ThumbMCP] = Point3D{X: 0.41, Y: 0.79}
	h.Points[ThumbIP] = Point3D{X: 0.36, Y: 0.79}
	h.Points[ThumbTip] = Point3D{X: 0.30, Y: 0.78}

	facingPalmFingers(&h, 0)
	return h
}
