package stat

import (
	"math"
	"testing"

	"presentmw/internal/ptypes"
)

func sequence1to100() []float64 {
	out := make([]float64, 100)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentileMatchesReferencePoints(t *testing.T) {
	samples := sequence1to100()

	cases := []struct {
		p    float64
		want float64
	}{
		{50, 50.5},
		{99, 99.01},
		{1, 1.99},
		{100, 100},
	}
	for _, c := range cases {
		got := Evaluate(samples, ptypes.StatPercentile, c.p)
		if !almostEqual(got, c.want) {
			t.Errorf("percentile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestPercentile100ClampsToMax(t *testing.T) {
	samples := sequence1to100()
	got := Evaluate(samples, ptypes.StatPercentile, 100)
	want := Evaluate(samples, ptypes.StatMax, 0)
	if !almostEqual(got, want) {
		t.Errorf("PERCENTILE_100 = %v, want MAX = %v", got, want)
	}
}

func TestNonZeroAvgIgnoresZeros(t *testing.T) {
	got := Evaluate([]float64{0, 0, 2, 4}, ptypes.StatNonZeroAvg, 0)
	if !almostEqual(got, 3) {
		t.Errorf("nonZeroAvg = %v, want 3", got)
	}
}

func TestMidPoint(t *testing.T) {
	// data[n/2] on the unsorted slice: index 2 of {1,5,3,9} is 3, not the
	// mid-range (min+max)/2.
	got := Evaluate([]float64{1, 5, 3, 9}, ptypes.StatMidPoint, 0)
	if !almostEqual(got, 3) {
		t.Errorf("midPoint = %v, want 3", got)
	}
}

func TestEmptySamplesAreZero(t *testing.T) {
	for _, s := range []ptypes.Stat{ptypes.StatAvg, ptypes.StatMax, ptypes.StatMin, ptypes.StatMidPoint, ptypes.StatPercentile} {
		if got := Evaluate(nil, s, 50); got != 0 {
			t.Errorf("Evaluate(nil, %v) = %v, want 0", s, got)
		}
	}
}
