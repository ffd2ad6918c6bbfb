// Package gesture implements the classification pipeline that turns hand
// landmarks into stable, logged gesture events: per-frame geometry features,
// a priority-ordered classifier, and a stability debouncer.
package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger indices into Features.Extended.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Geometry tolerances. Tuned empirically against recorded landmark
// sequences; see the feature tests for poses that sit on either side
// of each threshold.
const (
	// extendMargin is the slack, in normalized image coordinates, required
	// before a fingertip counts as extended past its reference joint.
	extendMargin = 0.02

	// thumbUpMinRise is the minimum upward (negative y) component of the
	// wrist-to-thumb-tip vector for a thumbs-up.
	thumbUpMinRise = 0.05

	// thumbUpMaxSlope bounds the horizontal drift of the thumb relative to
	// its rise. 0.5 keeps the thumb within roughly 27 degrees of vertical.
	thumbUpMaxSlope = 0.5

	// palmFacingMinCos is the minimum cosine between the approximate palm
	// normal and the camera-ward axis for the palm to count as facing the
	// camera.
	palmFacingMinCos = 0.15
)

// Features is the per-frame geometric summary of one hand: which fingers
// are extended, whether the thumb points up, and whether the palm faces
// the camera. It carries no identity and is recomputed every frame.
type Features struct {
	Extended   [NumFingers]bool `json:"extended"`
	ThumbUp    bool             `json:"thumb_up"`
	PalmFacing bool             `json:"palm_facing"`
}

// NonThumbCount returns how many of index, middle, ring and pinky are
// extended. The thumb is deliberately excluded: digit counting never
// includes it, so a thumb-only pose cannot read as a digit.
func (f Features) NonThumbCount() int {
	n := 0
	for _, ext := range f.Extended[Index:] {
		if ext {
			n++
		}
	}
	return n
}

// AllExtended reports whether all five fingers are extended.
func (f Features) AllExtended() bool {
	return f.Extended[Thumb] && f.NonThumbCount() == 4
}

// Extract computes the Features for one hand from its landmarks.
// Handedness is "Left" or "Right"; anything else is treated as "Right".
// Returns ok=false when fewer than the full 21 landmarks are supplied
// (an ungeometrizable frame, equivalent to "no hand" for classification).
// Pure computation, no side effects, never panics.
func Extract(points []detector.Point3D, handedness string) (Features, bool) {
	if len(points) < detector.NumLandmarks {
		return Features{}, false
	}

	var f Features
	f.Extended[Thumb] = thumbExtended(points, handedness)
	f.Extended[Index] = fingerExtended(points, detector.IndexTip, detector.IndexPIP)
	f.Extended[Middle] = fingerExtended(points, detector.MiddleTip, detector.MiddlePIP)
	f.Extended[Ring] = fingerExtended(points, detector.RingTip, detector.RingPIP)
	f.Extended[Pinky] = fingerExtended(points, detector.PinkyTip, detector.PinkyPIP)
	f.ThumbUp = f.Extended[Thumb] && thumbUp(points)
	f.PalmFacing = palmFacing(points)

	return f, true
}

// fingerExtended tests a non-thumb finger: the tip must sit above the PIP
// joint in image coordinates (y grows downward) by at least extendMargin.
func fingerExtended(points []detector.Point3D, tip, pip int) bool {
	return points[tip].Y+extendMargin < points[pip].Y
}

// thumbExtended tests lateral thumb extension relative to the IP joint.
// The thumb flexes sideways rather than curling toward the palm, so the
// test is on x rather than y, and its direction depends on handedness.
func thumbExtended(points []detector.Point3D, handedness string) bool {
	tip := points[detector.ThumbTip].X
	ip := points[detector.ThumbIP].X
	if handedness == "Left" {
		return tip > ip+extendMargin
	}
	return tip < ip-extendMargin
}

// thumbUp reports whether the wrist-to-thumb-tip vector points upward:
// the rise must clear thumbUpMinRise and dominate any horizontal drift.
// "Up" is the negative y direction in image coordinates.
func thumbUp(points []detector.Point3D) bool {
	dx := points[detector.ThumbTip].X - points[detector.Wrist].X
	dy := points[detector.ThumbTip].Y - points[detector.Wrist].Y
	if dy >= -thumbUpMinRise {
		return false
	}
	return abs(dx) < abs(dy)*thumbUpMaxSlope
}

// palmFacing approximates the palm normal as the cross product of the
// wrist-to-index-MCP and wrist-to-pinky-MCP vectors and compares it with
// the camera-ward axis (0,0,-1); z grows away from the camera in the
// landmark convention. This is a coarse heuristic, not a 3D pose estimate.
func palmFacing(points []detector.Point3D) bool {
	wrist := vec(points[detector.Wrist])
	index := vec(points[detector.IndexMCP])
	pinky := vec(points[detector.PinkyMCP])

	normal := r3.Cross(r3.Sub(index, wrist), r3.Sub(pinky, wrist))
	if r3.Norm(normal) == 0 {
		return false
	}
	return r3.Cos(normal, r3.Vec{Z: -1}) > palmFacingMinCos
}

func vec(p detector.Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
