package metrics

import "math"

// ExpectedThreat scores the attacking value added by moving the ball
// from (x, y) to (endX, endY), all in the provider's native 0-100 scale.
// Only net progress toward the goal centre that ends in the attacking
// half is rewarded; there is no zone value grid. Treat the output as an
// approximate proxy, not a calibrated model.
func ExpectedThreat(x, y, endX, endY float64) float64 {
	distStart := math.Hypot(100-x, 50-y)
	distEnd := math.Hypot(100-endX, 50-endY)

	reduction := distStart - distEnd
	if reduction > 0 && endX > 60 {
		return round4((reduction / 100) * 0.15)
	}
	return 0.0
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
