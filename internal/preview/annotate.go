// Package preview renders the annotated monitoring view: the hand
// skeleton, finger states, and recognition status drawn over the
// camera frame.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// handConnections are the landmark index pairs that form the hand
// skeleton: thumb, four fingers, and the palm arc across the knuckles.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC},
	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP},
	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},
	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	{detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.PinkyMCP},
}

var (
	skeletonColor = color.RGBA{R: 0, G: 180, B: 0, A: 0}
	jointColor    = color.RGBA{R: 220, G: 0, B: 0, A: 0}
	infoColor     = color.RGBA{R: 0, G: 200, B: 255, A: 0}
	gestureColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	fpsColor      = color.RGBA{R: 255, G: 255, B: 0, A: 0}
)

// Overlay describes one frame's annotation state.
type Overlay struct {
	// Hand is the detected hand to draw, nil when no hand was present.
	Hand     *detector.HandLandmarks
	Features gesture.Features

	// Candidate is the raw per-frame classification; Confirmed is the
	// last label the debouncer emitted.
	Candidate gesture.Label
	Confirmed gesture.Label

	FPS float64
}

// Draw renders the overlay onto frame in place.
func Draw(frame *gocv.Mat, ov Overlay) {
	if frame == nil || frame.Empty() {
		return
	}

	if ov.Hand != nil {
		drawSkeleton(frame, ov.Hand)
		drawFingerStates(frame, ov.Hand, ov.Features)
	}

	if ov.Candidate != gesture.None {
		gocv.PutText(frame, fmt.Sprintf("Gesture: %s", ov.Candidate),
			image.Pt(10, 60), gocv.FontHersheySimplex, 0.9, gestureColor, 2)
	}
	if ov.Confirmed != gesture.None {
		gocv.PutText(frame, fmt.Sprintf("Stable: %s", ov.Confirmed),
			image.Pt(10, 120), gocv.FontHersheySimplex, 0.6, gestureColor, 2)
	}

	gocv.PutText(frame, fmt.Sprintf("FPS: %.1f", ov.FPS),
		image.Pt(10, 90), gocv.FontHersheySimplex, 0.6, fpsColor, 2)
}

func drawSkeleton(frame *gocv.Mat, hand *detector.HandLandmarks) {
	w := float64(frame.Cols())
	h := float64(frame.Rows())

	for _, conn := range handConnections {
		a := toPixel(hand.Points[conn[0]], w, h)
		b := toPixel(hand.Points[conn[1]], w, h)
		gocv.Line(frame, a, b, skeletonColor, 2)
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, toPixel(p, w, h), 3, jointColor, -1)
	}
}

func drawFingerStates(frame *gocv.Mat, hand *detector.HandLandmarks, f gesture.Features) {
	info := fmt.Sprintf("Hand: %s  Fingers: T%d/I%d/M%d/R%d/P%d",
		hand.Handedness,
		bit(f.Extended[gesture.Thumb]),
		bit(f.Extended[gesture.Index]),
		bit(f.Extended[gesture.Middle]),
		bit(f.Extended[gesture.Ring]),
		bit(f.Extended[gesture.Pinky]))
	gocv.PutText(frame, info, image.Pt(10, 30), gocv.FontHersheySimplex, 0.6, infoColor, 2)
}

// toPixel maps a normalized landmark to frame pixel coordinates.
func toPixel(p detector.Point3D, w, h float64) image.Point {
	return image.Pt(int(p.X*w), int(p.Y*h))
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
