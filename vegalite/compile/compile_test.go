package compile

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/cwbudde/ssv/vegalite"
)

func sampleSpec() *vegalite.Spec {
	s := vegalite.New(1000, 500)
	s.Data = &vegalite.Data{Name: "spectrum", Values: []vegalite.Record{
		vegalite.NewRecord("wavelength", 2000.0, "intensity", 5.0),
		vegalite.NewRecord("wavelength", 2010.0, "intensity", 7.0),
	}}
	s.Encoding = &vegalite.Encoding{X: vegalite.Quantitative("wavelength").WithDomain(1990, 2030).WithTitle("Wavelength")}
	s.Transform = []vegalite.Transform{vegalite.FilterRange("wavelength", 1990, 2030)}
	s.Signals = []vegalite.Signal{{Name: "redshift", Value: 1.0}}
	s.Add(vegalite.Layer{
		Mark:      vegalite.Line(),
		Transform: []vegalite.Transform{vegalite.MovingMean("intensity", "intensityT", 3)},
		Encoding: vegalite.Encoding{
			Y:     vegalite.Quantitative("intensityT").WithDomain(0, 40).WithTitle("Intensity"),
			Color: vegalite.Value("green"),
		},
		Selection: map[string]vegalite.Selection{"grid": vegalite.PanZoom()},
	})
	s.Add(vegalite.Layer{
		Mark:     vegalite.Rule(),
		Data:     &vegalite.Data{Values: []vegalite.Record{vegalite.NewRecord("wavelength", 2005.0)}},
		Encoding: vegalite.Encoding{Color: vegalite.Value("blue"), StrokeDash: vegalite.Value([]float64{16, 16})},
	})

	return s
}

func TestBuiltinKeepsSizeAndDropsCustomSignals(t *testing.T) {
	t.Parallel()

	v, err := Builtin{}.Compile(context.Background(), sampleSpec())
	require.NoError(t, err)

	w, ok := v.Width()
	require.True(t, ok)
	assert.Equal(t, 1000.0, w)

	h, ok := v.Height()
	require.True(t, ok)
	assert.Equal(t, 500.0, h)

	_, ok = v.Signal("redshift")
	assert.False(t, ok)

	_, ok = v.Signal("grid_x")
	assert.True(t, ok)

	assert.Len(t, v.Marks(), 2)
	assert.Len(t, v.Data(), 3)
}

func TestBuiltinLowersTransformsAndMarks(t *testing.T) {
	t.Parallel()

	v, err := Builtin{}.Compile(context.Background(), sampleSpec())
	require.NoError(t, err)

	root := v.Data()[0].(map[string]any)
	assert.Equal(t, "spectrum", root["name"])
	assert.Equal(t, []any{map[string]any{"type": "filter", "expr": "datum.wavelength >= 1990 && datum.wavelength <= 2030"}}, root["transform"])

	line := v.Data()[1].(map[string]any)
	assert.Equal(t, "spectrum", line["source"])
	win := line["transform"].([]any)[0].(map[string]any)
	assert.Equal(t, "window", win["type"])
	assert.Equal(t, []any{-3, 3}, win["frame"])

	rule := v.Marks()[1].(map[string]any)
	assert.Equal(t, "rule", rule["type"])
	update := rule["encode"].(map[string]any)["update"].(map[string]any)
	assert.Equal(t, map[string]any{"value": "blue"}, update["stroke"])
	assert.Equal(t, map[string]any{"scale": "x", "field": "wavelength"}, update["x"], "rule inherits top-level x")

	scales := v["scales"].([]any)
	assert.Equal(t, []any{1990.0, 2030.0}, scales[0].(map[string]any)["domain"])
	assert.Equal(t, []any{0.0, 40.0}, scales[1].(map[string]any)["domain"])
}

func TestBuiltinRejectsMalformed(t *testing.T) {
	t.Parallel()

	_, err := Builtin{}.Compile(context.Background(), vegalite.New(10, 10))
	assert.True(t, errors.Is(err, vegalite.ErrMalformed))

	s := sampleSpec()
	s.Layer[0].Transform = append(s.Layer[0].Transform, vegalite.Transform{})
	_, err = Builtin{}.Compile(context.Background(), s)
	assert.True(t, errors.Is(err, vegalite.ErrMalformed))
}

func TestRangeExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    [2]float64
		want string
	}{
		{"both", [2]float64{1, 2}, "datum.x >= 1 && datum.x <= 2"},
		{"lower", [2]float64{1, nan()}, "datum.x >= 1"},
		{"upper", [2]float64{nan(), 2}, "datum.x <= 2"},
		{"open", [2]float64{nan(), nan()}, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rangeExpr("x", tt.r))
		})
	}
}

func TestVegaSignalsAndClone(t *testing.T) {
	t.Parallel()

	v := Vega{"signals": []any{}}
	v.AppendSignal("redshift", 1.0)
	v.AppendSignal("redshift", 2.0)

	got, ok := v.Signal("redshift")
	require.True(t, ok)
	assert.Equal(t, 2.0, got)

	c := v.Clone()
	c.ResetSignals()
	assert.Len(t, v.Signals(), 2)
	assert.Empty(t, c.Signals())

	assert.Nil(t, Vega(nil).Clone())
}

func TestCachedReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	inner := Func(func(ctx context.Context, spec *vegalite.Spec) (Vega, error) {
		calls.Add(1)
		return Builtin{}.Compile(ctx, spec)
	})

	c, err := NewCached(inner, 4)
	require.NoError(t, err)

	first, err := c.Compile(context.Background(), sampleSpec())
	require.NoError(t, err)
	first.AppendSignal("redshift", 1.0)

	second, err := c.Compile(context.Background(), sampleSpec())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())

	_, ok := second.Signal("redshift")
	assert.False(t, ok, "signals appended by a caller must not reach the cache")

	c.Purge()
	assert.Equal(t, 0, c.Len())

	_, err = NewCached(nil, 1)
	require.Error(t, err)
}

func TestCachedPropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c, err := NewCached(Func(func(context.Context, *vegalite.Spec) (Vega, error) { return nil, boom }), 0)
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), sampleSpec())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unavailable")
	}

	path := filepath.Join(t.TempDir(), "vl2vg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return provider, exporter
}

func TestExecDecodesStdout(t *testing.T) {
	bin := writeScript(t, `test -s "$1" || exit 3
echo '{"width":1000,"height":500,"signals":[]}'`)
	provider, exporter := setupTestTracer(t)

	e := NewExec(bin, WithTracer(provider.Tracer("test")))
	assert.Equal(t, bin, e.Binary())

	v, err := e.Compile(context.Background(), sampleSpec())
	require.NoError(t, err)

	w, _ := v.Width()
	assert.Equal(t, 1000.0, w)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "vegalite.compile", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestExecReportsStderr(t *testing.T) {
	bin := writeScript(t, `echo "unknown mark" >&2
exit 1`)
	provider, exporter := setupTestTracer(t)

	_, err := NewExec(bin, WithTracer(provider.Tracer("test"))).Compile(context.Background(), sampleSpec())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompile)
	assert.Contains(t, err.Error(), "unknown mark")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestExecRejectsGarbageOutput(t *testing.T) {
	bin := writeScript(t, `echo not-json`)

	_, err := NewExec(bin).Compile(context.Background(), sampleSpec())
	assert.ErrorIs(t, err, ErrCompile)
}

func TestNewExecDefaultsBinary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBinary, NewExec("").Binary())
}

func nan() float64 { return math.NaN() }
