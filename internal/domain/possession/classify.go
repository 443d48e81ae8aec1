package possession

// Final-third and progressive classification operate on standard-pitch
// (120x80) coordinates; callers calibrate provider coordinates first.

// finalThirdBoundary is the attacking 25%-from-byline line on the
// 120-length scale.
const finalThirdBoundary = 80.0

// progressiveOriginFloor excludes passes starting in the defensive 40%.
const progressiveOriginFloor = 48.0

// IsFinalThirdPass reports whether a pass ends inside the final third.
func IsFinalThirdPass(endX float64) bool {
	return endX > finalThirdBoundary
}

// IsProgressivePass reports whether a successful pass from x to endX
// advances the ball meaningfully toward goal. Passes from deep need much
// larger absolute progress than passes already near the opponent's goal,
// where even short advances matter.
func IsProgressivePass(x, endX float64) bool {
	if x < progressiveOriginFloor {
		return false
	}

	forward := endX - x
	switch {
	case x < 60.0:
		return forward >= 30.0
	case x < 90.0:
		return forward >= 15.0
	default:
		return forward >= 10.0
	}
}
