package metrics

import (
	"math"
	"testing"
)

func TestExpectedGoalsPenaltyConstant(t *testing.T) {
	got := ExpectedGoals(108, 40, true, false, BodyPartFoot)
	if got != 0.76 {
		t.Fatalf("penalty xG = %v, want 0.76", got)
	}

	// The constant wins over every other input.
	got = ExpectedGoals(5, 5, true, true, BodyPartHeader)
	if got != 0.76 {
		t.Fatalf("penalty xG with noisy inputs = %v, want 0.76", got)
	}
}

func TestExpectedGoalsBounds(t *testing.T) {
	for x := 0.0; x <= 120; x += 7.5 {
		for y := 0.0; y <= 80; y += 5 {
			for _, big := range []bool{false, true} {
				for _, part := range []BodyPart{BodyPartFoot, BodyPartHeader, BodyPartUnknown} {
					got := ExpectedGoals(x, y, false, big, part)
					if got < 0.01 || got > 0.95 {
						t.Fatalf("xG out of bounds at (%v,%v,big=%v,%v): %v", x, y, big, part, got)
					}
				}
			}
		}
	}
}

func TestExpectedGoalsDecaysWithDistance(t *testing.T) {
	// Two shots on the same central ray, both past the confident range:
	// the farther one must score strictly lower.
	near := ExpectedGoals(100, 40, false, false, BodyPartFoot) // 20 out
	far := ExpectedGoals(90, 40, false, false, BodyPartFoot)   // 30 out
	if far >= near {
		t.Fatalf("xG did not decay with distance: near=%v far=%v", near, far)
	}
}

func TestExpectedGoalsHeaderDiscount(t *testing.T) {
	foot := ExpectedGoals(112, 40, false, false, BodyPartFoot)
	header := ExpectedGoals(112, 40, false, false, BodyPartHeader)
	if header >= foot {
		t.Fatalf("header xG %v not below foot xG %v", header, foot)
	}
}

func TestExpectedGoalsBigChanceBand(t *testing.T) {
	// Big chances are floored and capped regardless of geometry, as long
	// as the shot is inside the confident range.
	closeRange := ExpectedGoals(115, 40, false, true, BodyPartFoot)
	if closeRange < 0.35 || closeRange > 0.65 {
		t.Fatalf("big chance xG %v outside [0.35, 0.65]", closeRange)
	}

	midRange := ExpectedGoals(104, 36, false, true, BodyPartFoot)
	if midRange < 0.35 || midRange > 0.65 {
		t.Fatalf("big chance xG %v outside [0.35, 0.65]", midRange)
	}
}

func TestExpectedGoalsRoundedToThreeDecimals(t *testing.T) {
	got := ExpectedGoals(103, 47, false, false, BodyPartFoot)
	if math.Abs(got*1000-math.Round(got*1000)) > 1e-9 {
		t.Fatalf("xG %v not rounded to 3 decimals", got)
	}
}

func TestExpectedThreat(t *testing.T) {
	t.Run("forward pass into attacking half earns threat", func(t *testing.T) {
		got := ExpectedThreat(50, 50, 80, 50)
		if got <= 0 {
			t.Fatalf("expected positive xT, got %v", got)
		}
		// reduction of 30 units -> (30/100)*0.15. Approximate model, but
		// this case is exact by construction.
		if math.Abs(got-0.045) > 1e-9 {
			t.Fatalf("xT = %v, want 0.045", got)
		}
	})

	t.Run("backward pass earns nothing", func(t *testing.T) {
		if got := ExpectedThreat(70, 50, 40, 50); got != 0 {
			t.Fatalf("backward pass xT = %v, want 0", got)
		}
	})

	t.Run("progress ending in own half earns nothing", func(t *testing.T) {
		if got := ExpectedThreat(20, 50, 55, 50); got != 0 {
			t.Fatalf("own-half xT = %v, want 0", got)
		}
	})
}
