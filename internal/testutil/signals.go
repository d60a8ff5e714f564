package testutil

import (
	"math"
	"math/rand"
)

// LinearGrid returns n wavelengths from start spaced by step.
func LinearGrid(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// EmissionLine is one Gaussian feature of a synthetic spectrum.
type EmissionLine struct {
	Center    float64
	Sigma     float64
	Amplitude float64
}

// SyntheticSpectrum evaluates a continuum plus Gaussian lines on wavelengths.
// Every line center is multiplied by (1+z).
func SyntheticSpectrum(wavelengths []float64, continuum, z float64, lines ...EmissionLine) []float64 {
	out := make([]float64, len(wavelengths))
	for i, w := range wavelengths {
		v := continuum
		for _, l := range lines {
			d := (w - l.Center*(1+z)) / (l.Sigma * (1 + z))
			v += l.Amplitude * math.Exp(-0.5*d*d)
		}
		out[i] = v
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// WithGaps returns a copy of data with NaN at every index in gaps.
func WithGaps(data []float64, gaps ...int) []float64 {
	out := append([]float64(nil), data...)
	for _, i := range gaps {
		if i >= 0 && i < len(out) {
			out[i] = math.NaN()
		}
	}
	return out
}
