package viewer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ssv/viewer/capability"
	"github.com/cwbudde/ssv/viewer/template"
)

func nan() float64 { return math.NaN() }

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	assert.Equal(t, "TestNewDefaults", v.Name())
	assert.Equal(t, 0, v.SmoothHalfWidth())
	assert.Equal(t, "x", v.Overlay().XAxis().Trace)
	assert.Equal(t, "y", v.Overlay().YAxis().Trace)
	assert.Equal(t, 1.0, v.Templates().ZFactor())

	_, ok := v.Pin()
	assert.False(t, ok)

	_, ok = v.Value(capability.LoadSpectraLines)
	assert.False(t, ok, "nothing is cached before Initialise")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := ApplyOptions(
		WithSmoothHalfWidth(3),
		WithSmoothHalfWidth(-1),
		WithStyle(Style{Primary: "black"}),
		WithCompiler(nil),
		WithLogger(nil),
		nil,
	)

	assert.Equal(t, 3, cfg.SmoothHalfWidth)
	assert.Equal(t, "black", cfg.Style.Primary)
	assert.Equal(t, "brown", cfg.Style.Template)
	assert.Equal(t, 0.4, cfg.Style.StrokeWidth)
	assert.NotNil(t, cfg.Compiler)
	assert.NotNil(t, cfg.Logger)
}

func TestSmoothHalfWidthFrame(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t, WithSmoothHalfWidth(2))
	v.SetTrace("x", []float64{1, 2})
	v.SetTrace("y", []float64{1, 2})
	v.SetSmoothHalfWidth(4)
	v.SetSmoothHalfWidth(-1)
	assert.Equal(t, 4, v.SmoothHalfWidth(), "negative half width is ignored")

	s, err := v.BuildMainSpec(10, 10, Range{0, 3}, Range{0, 3}, DefaultMainOptions())
	require.NoError(t, err)
	assert.Equal(t, [2]int{-4, 4}, s.Layer[0].Transform[1].Frame)
}

func TestTraceDelegation(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	v.SetTrace("flux", []float64{3, nan(), -1})

	got, ok := v.Trace("flux")
	require.True(t, ok)
	assert.Len(t, got, 3)

	lo, _ := v.TraceMin("flux")
	hi, _ := v.TraceMax("flux")
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 3.0, hi)

	v.SetTraceMinClip("flux", -10)
	v.SetTraceMaxClip("flux", 10)

	clipLo, _ := v.TraceMinClip("flux")
	clipHi, _ := v.TraceMaxClip("flux")
	assert.Equal(t, -10.0, clipLo)
	assert.Equal(t, 10.0, clipHi)

	v.SetTraceVisibility("flux", false)
	visible, ok := v.TraceVisibility("flux")
	require.True(t, ok)
	assert.False(t, visible)

	_, ok = v.Trace("missing")
	assert.False(t, ok)
}

func TestInitialiseLoadsTemplates(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	list := []template.Template{
		{ID: "1", Name: "Early type", Data: template.Pair{X: []float64{1}, Y: []float64{2}}},
		{ID: "2", Name: "Quasar"},
	}
	require.NoError(t, v.Register(capability.LoadTemplates, func(*Viewer, capability.Args) any {
		return list
	}))

	require.NoError(t, v.Initialise())
	assert.Equal(t, []string{"1", "2"}, v.TemplateIDs())
	assert.Equal(t, []string{"Early type", "Quasar"}, v.TemplateNames())

	tpl, ok := v.TemplateByName("Quasar")
	require.True(t, ok)
	assert.Equal(t, "2", tpl.ID)

	_, ok = v.TemplateByID("3")
	assert.False(t, ok)
}

func TestInitialiseIgnoresForeignTemplates(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	v.SetTemplates([]template.Template{{ID: "keep"}})
	require.NoError(t, v.Register(capability.LoadTemplates, func(*Viewer, capability.Args) any {
		return "not a template list"
	}))

	require.NoError(t, v.Initialise())
	assert.Equal(t, []string{"keep"}, v.TemplateIDs())
}

func TestActiveTemplateRecomputesZFactor(t *testing.T) {
	t.Parallel()

	v := newTestViewer(t)
	v.SetRedshift(1)
	v.SetActiveTemplate("t", template.Pair{}, 0.5)

	assert.Equal(t, "t", v.ActiveTemplateID())
	assert.InDelta(t, 2/1.5, v.Templates().ZFactor(), 1e-15)
}

func TestDropPinDoesNotWait(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	delivered := make(chan string, 1)
	q := capability.NewQueueNotifier(1, func(msg string) {
		<-release
		delivered <- msg
	}, nil)
	t.Cleanup(q.Close)

	v := New("pin", WithNotifier(q))

	done := make(chan error, 1)
	go func() { done <- v.DropPin("pin", 2010, 20, "pinned") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("DropPin blocked on the notification")
	}

	pin, ok := v.Pin()
	require.True(t, ok)
	assert.Equal(t, 2010.0, pin.X)

	close(release)
	assert.Equal(t, "pinned", <-delivered)
}

func TestCloseOwnedNotifier(t *testing.T) {
	t.Parallel()

	v := New("owned")
	q, ok := v.Capabilities().Notifier().(*capability.QueueNotifier)
	require.True(t, ok)

	v.Close()
	v.Close()
	assert.False(t, q.Notify("late"), "closed queue rejects tasks")
}
