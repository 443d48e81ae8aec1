// Package metrics holds the pure shot and ball-progression value models.
package metrics

import (
	"math"

	"github.com/matchpulse/matchpulse/internal/domain/pitch"
)

// BodyPart is how a shot was struck, derived from qualifier tags.
type BodyPart string

const (
	BodyPartUnknown   BodyPart = "Unknown"
	BodyPartFoot      BodyPart = "Foot"
	BodyPartRightFoot BodyPart = "Right Foot"
	BodyPartLeftFoot  BodyPart = "Left Foot"
	BodyPartHeader    BodyPart = "Header"
)

const (
	// PenaltyXG is a calibrated constant, not a geometric result.
	PenaltyXG = 0.76

	goalHalfWidth = 4.0
	minDistance   = 0.5
	// Beyond this distance the geometric model loses confidence and an
	// inverse-square decay kicks in.
	confidentRange = 18.0
)

// ExpectedGoals estimates the scoring probability of a shot taken from
// (x, y) on the standard 120x80 pitch. The shooting angle is modelled
// from distance alone, treating the shot as if taken on the centre ray;
// lateral offset is folded into the distance term. A coarse model, kept
// deliberately simple.
func ExpectedGoals(x, y float64, penalty, bigChance bool, bodyPart BodyPart) float64 {
	if penalty {
		return PenaltyXG
	}

	dx := pitch.StandardLength - x
	dy := pitch.StandardWidth/2 - y
	distance := math.Max(math.Sqrt(dx*dx+dy*dy), minDistance)

	angle := math.Atan2(goalHalfWidth, distance)
	xg := (angle / (math.Pi / 2)) * (1 / (1 + distance/30))

	if bodyPart == BodyPartHeader {
		xg *= 0.4
	}
	if bigChance {
		xg = math.Max(0.35, xg*3.5)
		xg = math.Min(0.65, xg)
	}
	if distance > confidentRange {
		xg *= (confidentRange / distance) * (confidentRange / distance)
	}

	return round3(math.Min(math.Max(xg, 0.01), 0.95))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
