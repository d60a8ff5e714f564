package xcorr

import (
	"errors"
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/ssv/internal/window"
)

var (
	// ErrTooShort reports a series with fewer than two finite samples.
	ErrTooShort = errors.New("xcorr: series needs at least two finite samples")
	// ErrRange reports an empty or inverted redshift range.
	ErrRange = errors.New("xcorr: invalid redshift range")
	// ErrNoOverlap reports that no shift in the redshift range pairs the two
	// spectra.
	ErrNoOverlap = errors.New("xcorr: no shift within redshift range")
)

// Series is a spectrum sampled at increasing wavelengths.
type Series struct {
	Wavelength []float64
	Intensity  []float64
}

// Config controls a scan.
type Config struct {
	MinZ, MaxZ float64
	// Bins is the size of the shared log-wavelength grid.
	Bins int
	// Taper is the Tukey alpha applied to both resampled spectra.
	Taper float64
	// TemplateRedshift is the redshift the template is already at.
	TemplateRedshift float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a scan over 0 <= z <= 1.5 on 4096 bins.
func DefaultConfig() Config {
	return Config{
		MinZ:  0,
		MaxZ:  1.5,
		Bins:  4096,
		Taper: 0.1,
	}
}

// WithRange limits the scan to minZ <= z <= maxZ.
func WithRange(minZ, maxZ float64) Option {
	return func(c *Config) {
		c.MinZ = minZ
		c.MaxZ = maxZ
	}
}

// WithBins sets the grid size. Values below 16 are ignored.
func WithBins(n int) Option {
	return func(c *Config) {
		if n >= 16 {
			c.Bins = n
		}
	}
}

// WithTaper sets the Tukey alpha.
func WithTaper(alpha float64) Option {
	return func(c *Config) {
		if alpha >= 0 && alpha <= 1 {
			c.Taper = alpha
		}
	}
}

// WithTemplateRedshift declares the redshift of the template.
func WithTemplateRedshift(z float64) Option {
	return func(c *Config) {
		if z > -1 {
			c.TemplateRedshift = z
		}
	}
}

// ApplyOptions applies opts on top of DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Result is a correlation curve over redshift.
//
// Redshifts is ascending and Correlation[i] belongs to Redshifts[i]. Values
// are normalised by the energies of both tapered spectra, so they lie in
// [-1, 1]. Best is the redshift of the highest value Peak.
type Result struct {
	Redshifts   []float64
	Correlation []float64
	Best        float64
	Peak        float64
}

// Scan correlates obs against tpl for every grid shift within the configured
// redshift range.
func Scan(obs, tpl Series, opts ...Option) (Result, error) {
	cfg := ApplyOptions(opts...)
	if !(cfg.MaxZ > cfg.MinZ) || cfg.MinZ <= -1 {
		return Result{}, fmt.Errorf("%w: [%g, %g]", ErrRange, cfg.MinZ, cfg.MaxZ)
	}

	o, err := logSamples(obs)
	if err != nil {
		return Result{}, fmt.Errorf("xcorr: observed: %w", err)
	}

	t, err := logSamples(tpl)
	if err != nil {
		return Result{}, fmt.Errorf("xcorr: template: %w", err)
	}

	lo := math.Min(o.x[0], t.x[0])
	hi := math.Max(o.x[len(o.x)-1], t.x[len(t.x)-1])
	step := (hi - lo) / float64(cfg.Bins-1)

	a := resample(o, lo, step, cfg.Bins, cfg.Taper)
	b := resample(t, lo, step, cfg.Bins, cfg.Taper)

	raw, err := correlate(a, b)
	if err != nil {
		return Result{}, err
	}

	norm := math.Sqrt(energy(a) * energy(b))
	if norm == 0 {
		norm = 1
	}

	// Shift k maps template bin i onto observed bin i+k, so
	// ln(1+z) = ln(1+zt) + k*step.
	base := math.Log1p(cfg.TemplateRedshift)
	kMin := int(math.Ceil((math.Log1p(cfg.MinZ) - base) / step))
	kMax := int(math.Floor((math.Log1p(cfg.MaxZ) - base) / step))
	kMin = max(kMin, -(cfg.Bins - 1))
	kMax = min(kMax, cfg.Bins-1)

	if kMin > kMax {
		return Result{}, fmt.Errorf("%w: [%g, %g]", ErrNoOverlap, cfg.MinZ, cfg.MaxZ)
	}

	res := Result{
		Redshifts:   make([]float64, 0, kMax-kMin+1),
		Correlation: make([]float64, 0, kMax-kMin+1),
		Peak:        math.Inf(-1),
	}

	for k := kMin; k <= kMax; k++ {
		idx := k
		if idx < 0 {
			idx += len(raw)
		}

		z := math.Expm1(base + float64(k)*step)
		c := raw[idx] / norm

		res.Redshifts = append(res.Redshifts, z)
		res.Correlation = append(res.Correlation, c)

		if c > res.Peak {
			res.Peak = c
			res.Best = z
		}
	}

	return res, nil
}

type samples struct {
	x, y []float64
}

// logSamples keeps the finite, positive-wavelength points of s, sorted by
// ln(wavelength).
func logSamples(s Series) (samples, error) {
	n := min(len(s.Wavelength), len(s.Intensity))

	type point struct{ x, y float64 }

	points := make([]point, 0, n)
	for i := range n {
		w, v := s.Wavelength[i], s.Intensity[i]
		if !(w > 0) || math.IsInf(w, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		points = append(points, point{math.Log(w), v})
	}

	slices.SortFunc(points, func(p, q point) int {
		switch {
		case p.x < q.x:
			return -1
		case p.x > q.x:
			return 1
		default:
			return 0
		}
	})

	if len(points) < 2 || points[0].x == points[len(points)-1].x {
		return samples{}, ErrTooShort
	}

	out := samples{x: make([]float64, len(points)), y: make([]float64, len(points))}
	for i, p := range points {
		out.x[i] = p.x
		out.y[i] = p.y
	}

	return out, nil
}

// resample interpolates s onto n bins starting at lo. Bins outside the
// coverage of s stay zero; covered bins have their mean removed and are
// tapered.
func resample(s samples, lo, step float64, n int, alpha float64) []float64 {
	out := make([]float64, n)
	first, last := -1, -1

	j := 0
	for i := range out {
		x := lo + float64(i)*step
		if x < s.x[0] || x > s.x[len(s.x)-1] {
			continue
		}

		for j < len(s.x)-2 && s.x[j+1] < x {
			j++
		}

		x0, x1 := s.x[j], s.x[j+1]
		f := 0.0
		if x1 > x0 {
			f = (x - x0) / (x1 - x0)
		}

		out[i] = s.y[j] + f*(s.y[j+1]-s.y[j])

		if first < 0 {
			first = i
		}
		last = i
	}

	if first < 0 {
		return out
	}

	covered := out[first : last+1]

	mean := 0.0
	for _, v := range covered {
		mean += v
	}
	mean /= float64(len(covered))

	for i := range covered {
		covered[i] -= mean
	}

	window.Apply(window.TypeTukey, covered, window.WithAlpha(alpha))

	return out
}

// correlate returns the circular correlation r[k] = sum a[i+k]*b[i] on a
// zero padded FFT grid. Negative shifts wrap to the end.
func correlate(a, b []float64) ([]float64, error) {
	size := nextPowerOf2(len(a) + len(b) - 1)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, size)
	bPadded := make([]complex128, size)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, size)
	bFreq := make([]complex128, size)

	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}

	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= complex(real(bFreq[i]), -imag(bFreq[i]))
	}

	if err := plan.Inverse(aPadded, aFreq); err != nil {
		return nil, fmt.Errorf("xcorr: inverse FFT failed: %w", err)
	}

	out := make([]float64, size)
	for i, v := range aPadded {
		out[i] = real(v)
	}

	return out, nil
}

func energy(x []float64) float64 {
	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	sum := 0.0
	for _, v := range sq {
		sum += v
	}

	return sum
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
