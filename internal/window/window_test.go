package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ssv/internal/testutil"
)

func TestGenerateFinite(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeRectangular, TypeHann, TypeTukey, TypeWelch} {
		t.Run(typ.String(), func(t *testing.T) {
			t.Parallel()

			w := Generate(typ, 64)
			require.Len(t, w, 64)
			testutil.RequireFinite(t, w)

			for i := range w {
				assert.InDelta(t, w[i], w[len(w)-1-i], 1e-12, "symmetry at %d", i)
			}
		})
	}
}

func TestGenerateEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Generate(TypeHann, 0))
	assert.Nil(t, Generate(TypeHann, -3))
	assert.Equal(t, []float64{0}, Generate(TypeHann, 1))
}

func TestTukeyLimits(t *testing.T) {
	t.Parallel()

	flat := Generate(TypeTukey, 16, WithAlpha(0))
	testutil.RequireSliceNearlyEqual(t, flat, Generate(TypeRectangular, 16), 0)

	full := Generate(TypeTukey, 16, WithAlpha(1))
	testutil.RequireSliceNearlyEqual(t, full, Generate(TypeHann, 16), 1e-12)
}

func TestTukeyPlateau(t *testing.T) {
	t.Parallel()

	w := Generate(TypeTukey, 101, WithAlpha(0.2))
	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 0, w[100], 1e-12)

	for i := 10; i <= 90; i++ {
		assert.InDelta(t, 1, w[i], 1e-12, "plateau at %d", i)
	}
}

func TestWithAlphaIgnoresOutOfRange(t *testing.T) {
	t.Parallel()

	want := Generate(TypeTukey, 32)
	testutil.RequireSliceNearlyEqual(t, Generate(TypeTukey, 32, WithAlpha(1.5)), want, 0)
	testutil.RequireSliceNearlyEqual(t, Generate(TypeTukey, 32, WithAlpha(-1), nil), want, 0)
}

func TestPeriodicHann(t *testing.T) {
	t.Parallel()

	w := Generate(TypeHann, 4, WithPeriodic())
	testutil.RequireSliceNearlyEqual(t, w, []float64{0, 0.5, 1, 0.5}, 1e-12)
}

func TestApplyCoefficients(t *testing.T) {
	t.Parallel()

	samples := []float64{2, 4, 6}
	require.NoError(t, ApplyCoefficients(samples, []float64{0.5, 0.5, 0}))
	assert.Equal(t, []float64{1, 2, 0}, samples)

	err := ApplyCoefficients(samples, []float64{1})
	assert.ErrorIs(t, err, ErrMismatchedLength)
}

func TestApplyEmpty(t *testing.T) {
	t.Parallel()

	var buf []float64
	Apply(TypeHann, buf)
	assert.Empty(t, buf)
}
