// Package testutil provides synthetic video frames for tests that need
// real Mats without shipping recorded footage.
package testutil

import "gocv.io/x/gocv"

// SolidFrame returns a 640x480 BGR frame filled with one color.
// The caller owns the returned Mat.
func SolidFrame(b, g, r float64) *gocv.Mat {
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(b, g, r, 0))
	return &mat
}

// MotionSequence returns frames alternating between dark and bright so
// frame differencing registers motion on every transition. The caller
// owns the returned Mats.
func MotionSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			frames = append(frames, SolidFrame(0, 0, 0))
		} else {
			frames = append(frames, SolidFrame(255, 255, 255))
		}
	}
	return frames
}

// StillSequence returns n identical mid-gray frames, producing no
// motion after the first baseline frame. The caller owns the Mats.
func StillSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, SolidFrame(128, 128, 128))
	}
	return frames
}

// CloseFrames releases every Mat in frames.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
