package engine

import "testing"

func TestClassifyThresholds(t *testing.T) {
	bands := Bands{Low: 0, Medium: 40, High: 70}

	cases := []struct {
		score int
		want  Band
	}{
		{0, BandLow},
		{39, BandLow},
		{40, BandMedium},
		{69, BandMedium},
		{70, BandHigh},
		{100, BandHigh},
	}

	for _, tc := range cases {
		if got := Classify(tc.score, bands); got != tc.want {
			t.Fatalf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestClassifyOutsideRange(t *testing.T) {
	bands := Bands{Low: 0, Medium: 40, High: 70}

	if got := Classify(-250, bands); got != BandLow {
		t.Fatalf("far-negative score should be LOW, got %s", got)
	}
	if got := Classify(900, bands); got != BandHigh {
		t.Fatalf("far-positive score should be HIGH, got %s", got)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	bands := Bands{Low: 0, Medium: 35, High: 65}
	rank := map[Band]int{BandLow: 0, BandMedium: 1, BandHigh: 2}

	previous := Classify(-10, bands)
	for score := -9; score <= 110; score++ {
		current := Classify(score, bands)
		if rank[current] < rank[previous] {
			t.Fatalf("classification regressed at score %d: %s after %s", score, current, previous)
		}
		previous = current
	}
}
