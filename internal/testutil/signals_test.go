package testutil

import (
	"math"
	"testing"
)

func TestLinearGrid(t *testing.T) {
	g := LinearGrid(4000, 0.5, 5)
	RequireSliceNearlyEqual(t, g, []float64{4000, 4000.5, 4001, 4001.5, 4002}, 0)
}

func TestSyntheticSpectrumPeaksAtShiftedCenter(t *testing.T) {
	w := LinearGrid(6000, 1, 2000)
	s := SyntheticSpectrum(w, 1, 0.5, EmissionLine{Center: 5000, Sigma: 5, Amplitude: 10})

	best := 0
	for i := range s {
		if s[i] > s[best] {
			best = i
		}
	}

	if w[best] != 7500 {
		t.Fatalf("peak at %v, want 7500", w[best])
	}

	if math.Abs(s[best]-11) > 1e-12 {
		t.Fatalf("peak = %v, want 11", s[best])
	}

	if math.Abs(s[0]-1) > 1e-9 {
		t.Fatalf("continuum = %v, want 1", s[0])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestWithGaps(t *testing.T) {
	src := []float64{1, 2, 3}
	got := WithGaps(src, 1, 7, -1)

	if !math.IsNaN(got[1]) || got[0] != 1 || got[2] != 3 {
		t.Fatalf("WithGaps = %v", got)
	}

	if math.IsNaN(src[1]) {
		t.Fatal("source modified")
	}
}
