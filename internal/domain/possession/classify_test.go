package possession

import "testing"

func TestIsFinalThirdPass(t *testing.T) {
	if IsFinalThirdPass(80.0) {
		t.Fatal("pass ending exactly on the boundary is not final-third")
	}
	if !IsFinalThirdPass(80.1) {
		t.Fatal("pass ending past the boundary must be final-third")
	}
}

func TestIsProgressivePassThresholds(t *testing.T) {
	cases := []struct {
		name string
		x    float64
		endX float64
		want bool
	}{
		{"deep zone needs 30, exactly met", 59.9, 89.9, true},
		{"deep zone needs 30, just short", 59.9, 89.8, false},
		{"middle zone needs 15, just short", 60.0, 74.9, false},
		{"middle zone needs 15, exactly met", 60.0, 75.0, true},
		{"box zone needs 10", 90.0, 100.0, true},
		{"box zone short", 95.0, 104.9, false},
		{"below origin floor never progressive", 47.9, 119.0, false},
		{"origin floor boundary", 48.0, 78.0, true},
		{"backward pass never progressive", 70.0, 50.0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsProgressivePass(tc.x, tc.endX); got != tc.want {
				t.Fatalf("IsProgressivePass(%v, %v) = %v, want %v", tc.x, tc.endX, got, tc.want)
			}
		})
	}
}
