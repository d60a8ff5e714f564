package viewer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPrepareRows(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	v.SetTrace("wavelength", []float64{2000, math.NaN(), 2020})
	v.SetTrace("intensity", []float64{10, 20, math.NaN()})
	v.SetTrace("sky", []float64{1, 2, 3})
	v.SetTrace("variance", nil)
	v.SetXAxisTitle("wavelength", "Wavelength")
	v.SetYAxisTitle("intensity", "Intensity")

	rows, err := v.PrepareRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"wavelength", "intensity", "sky"}, rows[0].Keys())

	x, _ := rows[1].Float("wavelength")
	assert.Equal(t, 2020.0, x)

	y, _ := rows[1].Float("intensity")
	assert.True(t, math.IsNaN(y), "NaN cells are kept and serialize as null")

	sky, _ := rows[1].Float("sky")
	assert.Equal(t, 3.0, sky)
}

func TestPrepareRowsSameTraceOnBothAxes(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	v.SetTrace("w", []float64{1, 2})
	v.SetTrace("sky", []float64{3, 4})
	v.SetXAxisTitle("w", "Wavelength")
	v.SetYAxisTitle("w", "Wavelength")

	rows, err := v.PrepareRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"w", "sky"}, rows[0].Keys())
}

func TestPrepareRowsErrors(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	_, err := v.PrepareRows()
	assert.ErrorIs(t, err, ErrUnknownTrace)

	v.SetTrace("x", []float64{1, 2, 3})
	_, err = v.PrepareRows()
	assert.ErrorIs(t, err, ErrUnknownTrace)

	v.SetTrace("y", []float64{1, 2})
	_, err = v.PrepareRows()
	assert.ErrorIs(t, err, ErrLengthMismatch)

	v.SetTrace("y", []float64{1, 2, 3})
	v.SetTrace("sky", []float64{1})
	_, err = v.PrepareRows()
	assert.ErrorIs(t, err, ErrLengthMismatch)

	v.SetTrace("sky", []float64{4, 5, 6})
	_, err = v.PrepareRows()
	assert.NoError(t, err)
}

func TestPrepareRowsProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		x := make([]float64, n)
		y := make([]float64, n)
		extra := make([]float64, n)
		want := 0

		for i := range x {
			if rapid.Bool().Draw(t, "nan") {
				x[i] = math.NaN()
			} else {
				x[i] = rapid.Float64Range(-1e6, 1e6).Draw(t, "x")
				want++
			}

			y[i] = rapid.Float64Range(-1e3, 1e3).Draw(t, "y")
			extra[i] = float64(i)
		}

		v := New("prop", WithNotifier(discard()))
		v.SetTrace("x", x)
		v.SetTrace("y", y)
		v.SetTrace("extra", extra)

		rows, err := v.PrepareRows()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(rows) != want {
			t.Fatalf("got %d rows, want %d", len(rows), want)
		}

		for _, r := range rows {
			xv, _ := r.Float("x")
			if math.IsNaN(xv) {
				t.Fatalf("row with NaN x kept")
			}

			i, ok := r.Float("extra")
			if !ok {
				t.Fatalf("extra trace missing from row")
			}

			if x[int(i)] != xv {
				t.Fatalf("row %v not index aligned", r)
			}
		}
	})
}
