package gesture

// Label identifies one gesture in the recognition vocabulary. Digits use
// their numeral as the label text so logged lines read "1".."5".
type Label string

const (
	// None means no rule matched the frame. It is never logged.
	None Label = "NONE"
	// Start is a thumbs-up: thumb extended and pointing up, all other
	// fingers folded.
	Start Label = "START"
	// Stop is an open palm facing the camera.
	Stop Label = "STOP"

	One   Label = "1"
	Two   Label = "2"
	Three Label = "3"
	Four  Label = "4"
	Five  Label = "5"
)

// Labels lists the vocabulary in priority order, excluding None.
var Labels = []Label{Start, Stop, One, Two, Three, Four, Five}

// FromCount maps a non-thumb extended-finger count to its digit label.
// Counts outside 1..5 map to None.
func FromCount(count int) Label {
	switch count {
	case 1:
		return One
	case 2:
		return Two
	case 3:
		return Three
	case 4:
		return Four
	case 5:
		return Five
	}
	return None
}

// rule pairs a predicate with the label it produces.
type rule struct {
	label Label
	match func(Features) bool
}

// rules is evaluated in order with first-match-wins semantics. The
// ordering is the contract that resolves ambiguity between poses:
//
//  1. START before STOP, so a thumbs-up is never tested against the
//     open-palm rules.
//  2. STOP before FIVE, so a full hand facing the camera is always STOP
//     even though the FIVE predicate alone would also accept it.
//  3. Digits require the thumb folded, so a thumb-only pose can never
//     read as "1".
//  4. FIVE is the fallback for a full hand not aimed at the camera.
var rules = []rule{
	{Start, func(f Features) bool {
		return f.ThumbUp && f.NonThumbCount() == 0
	}},
	{Stop, func(f Features) bool {
		return f.AllExtended() && f.PalmFacing
	}},
	{One, digit(1)},
	{Two, digit(2)},
	{Three, digit(3)},
	{Four, digit(4)},
	{Five, func(f Features) bool {
		return f.AllExtended()
	}},
}

// digit returns a predicate for the digit gestures: thumb folded and
// exactly count of the remaining four fingers extended.
func digit(count int) func(Features) bool {
	return func(f Features) bool {
		return !f.Extended[Thumb] && f.NonThumbCount() == count
	}
}

// Classify maps one frame's Features to a gesture label. Exactly one
// label is returned per call; None means no rule matched.
func Classify(f Features) Label {
	for _, r := range rules {
		if r.match(f) {
			return r.label
		}
	}
	return None
}
