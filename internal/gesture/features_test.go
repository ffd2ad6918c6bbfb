package gesture

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/mudra/internal/detector"
)

func extract(t *testing.T, h detector.HandLandmarks) Features {
	t.Helper()

	f, ok := Extract(h.Points[:], h.Handedness)
	if !ok {
		t.Fatal("Extract() returned ok=false for a complete hand")
	}
	return f
}

func TestExtract_ThumbsUp(t *testing.T) {
	f := extract(t, detector.ThumbsUpLandmarks())

	wantExtended := [NumFingers]bool{Thumb: true}
	if diff := cmp.Diff(wantExtended, f.Extended); diff != "" {
		t.Errorf("Extended mismatch (-want +got):\n%s", diff)
	}
	if !f.ThumbUp {
		t.Error("ThumbUp = false, want true")
	}
	if got := Classify(f); got != Start {
		t.Errorf("Classify() = %q, want START", got)
	}
}

func TestExtract_OpenPalmFacing(t *testing.T) {
	f := extract(t, detector.OpenPalmLandmarks())

	if !f.AllExtended() {
		t.Errorf("AllExtended() = false, Extended = %v", f.Extended)
	}
	if !f.PalmFacing {
		t.Error("PalmFacing = false, want true")
	}
	if f.ThumbUp {
		t.Error("ThumbUp = true for a lateral thumb, want false")
	}
	if got := Classify(f); got != Stop {
		t.Errorf("Classify() = %q, want STOP", got)
	}
}

func TestExtract_OpenPalmAway(t *testing.T) {
	f := extract(t, detector.OpenPalmAwayLandmarks())

	if !f.AllExtended() {
		t.Errorf("AllExtended() = false, Extended = %v", f.Extended)
	}
	if f.PalmFacing {
		t.Error("PalmFacing = true for the back of the hand, want false")
	}
	if got := Classify(f); got != Five {
		t.Errorf("Classify() = %q, want FIVE", got)
	}
}

func TestExtract_Digits(t *testing.T) {
	for count := 1; count <= 4; count++ {
		f := extract(t, detector.DigitLandmarks(count))

		if f.Extended[Thumb] {
			t.Errorf("count %d: thumb reads extended, want folded", count)
		}
		if got := f.NonThumbCount(); got != count {
			t.Errorf("count %d: NonThumbCount() = %d", count, got)
		}
		if got, want := Classify(f), FromCount(count); got != want {
			t.Errorf("count %d: Classify() = %q, want %q", count, got, want)
		}
	}
}

func TestExtract_SidewaysThumb(t *testing.T) {
	f := extract(t, detector.SidewaysThumbLandmarks())

	if !f.Extended[Thumb] {
		t.Error("thumb should read extended")
	}
	if f.ThumbUp {
		t.Error("ThumbUp = true for a horizontal thumb, want false")
	}
	if got := Classify(f); got != None {
		t.Errorf("Classify() = %q, want NONE", got)
	}
}

func TestExtract_HandednessFlipsThumbTest(t *testing.T) {
	// The thumbs-up fixture is a right hand; relabeling it "Left"
	// inverts the lateral test, so the thumb reads folded.
	h := detector.ThumbsUpLandmarks()
	f, ok := Extract(h.Points[:], "Left")
	if !ok {
		t.Fatal("Extract() returned ok=false")
	}
	if f.Extended[Thumb] {
		t.Error("left-handed thumb test should not read this pose as extended")
	}

	// Unknown handedness falls back to the right-hand test.
	f, ok = Extract(h.Points[:], "")
	if !ok {
		t.Fatal("Extract() returned ok=false")
	}
	if !f.Extended[Thumb] {
		t.Error("unknown handedness should default to the right-hand test")
	}
}

func TestExtract_Degraded(t *testing.T) {
	tests := []struct {
		name   string
		points []detector.Point3D
	}{
		{"nil points", nil},
		{"empty points", []detector.Point3D{}},
		{"twenty points", make([]detector.Point3D, detector.NumLandmarks-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Extract(tt.points, "Right")
			if ok {
				t.Error("Extract() ok = true for an incomplete hand, want false")
			}
			if diff := cmp.Diff(Features{}, f); diff != "" {
				t.Errorf("degraded Features should be zero (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_DegeneratePalm(t *testing.T) {
	// All landmarks at the same position: the palm normal collapses to
	// zero length and must read as not facing, not divide by zero.
	points := make([]detector.Point3D, detector.NumLandmarks)
	f, ok := Extract(points, "Right")
	if !ok {
		t.Fatal("Extract() returned ok=false for 21 coincident points")
	}
	if f.PalmFacing {
		t.Error("PalmFacing = true for a degenerate palm, want false")
	}
}
