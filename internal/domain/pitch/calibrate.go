// Package pitch maps the provider's 0-100 coordinate system onto the
// standard 120x80 pitch used by the geometry model.
package pitch

const (
	// StandardLength and StandardWidth describe the reference pitch.
	StandardLength = 120.0
	StandardWidth  = 80.0
)

// ToStandardX converts a provider x coordinate (0-100) to the standard
// 120-length scale. A single linear scale is off by about one unit at the
// penalty spot and the goal line, which matters to the geometric xG
// model, so the map is piecewise linear and exact at three landmarks:
// the halfway line (50 -> 60), the penalty spot (89 -> 108) and the goal
// line (100 -> 120).
func ToStandardX(x float64) float64 {
	switch {
	case x <= 50:
		return x * (60.0 / 50.0)
	case x <= 89:
		return 60.0 + (x-50)*(48.0/39.0)
	default:
		return 108.0 + (x-89)*(12.0/11.0)
	}
}

// ToStandardY converts a provider y coordinate (0-100) to the standard
// 80-width scale. The provider's y axis runs the opposite way, so the
// axis is flipped.
func ToStandardY(y float64) float64 {
	return StandardWidth - y*0.80
}
