package pitch

import (
	"math"
	"testing"
)

func TestToStandardXLandmarks(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"own goal line", 0, 0},
		{"halfway line", 50, 60},
		{"penalty spot", 89, 108},
		{"goal line", 100, 120},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToStandardX(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ToStandardX(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestToStandardXContinuousAtBreakpoints(t *testing.T) {
	const eps = 1e-9

	for _, bp := range []float64{50, 89} {
		below := ToStandardX(bp - eps)
		at := ToStandardX(bp)
		above := ToStandardX(bp + eps)

		if math.Abs(at-below) > 1e-6 || math.Abs(above-at) > 1e-6 {
			t.Fatalf("discontinuity at x=%v: below=%v at=%v above=%v", bp, below, at, above)
		}
	}
}

func TestToStandardXMonotonic(t *testing.T) {
	prev := ToStandardX(0)
	for x := 0.5; x <= 100; x += 0.5 {
		cur := ToStandardX(x)
		if cur <= prev {
			t.Fatalf("ToStandardX not strictly increasing at x=%v: %v <= %v", x, cur, prev)
		}
		prev = cur
	}
}

func TestToStandardYFlipsAxis(t *testing.T) {
	if got := ToStandardY(0); got != 80 {
		t.Fatalf("ToStandardY(0) = %v, want 80", got)
	}
	if got := ToStandardY(100); got != 0 {
		t.Fatalf("ToStandardY(100) = %v, want 0", got)
	}
	if got := ToStandardY(50); got != 40 {
		t.Fatalf("ToStandardY(50) = %v, want 40", got)
	}
}
