package capability

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/ssv/viewer/lines"
)

type model struct{ name string }

func discardNotifier() Notifier {
	return NotifierFunc(func(string) bool { return true })
}

func TestRegistryDefaults(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*model](WithNotifier(discardNotifier()))

	res, err := r.Apply(&model{}, LoadSpectraLines, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, res.Source)

	v, ok := r.Value(LoadSpectraLines)
	require.True(t, ok)
	catalog, ok := v.(lines.Catalog)
	require.True(t, ok)
	assert.Len(t, catalog, 24)

	_, err = r.Apply(&model{}, LoadTemplates, Args{"message": "loading"})
	require.NoError(t, err)

	v, ok = r.Value(LoadTemplates)
	assert.True(t, ok, "a nil result is still cached")
	assert.Nil(t, v)
}

func TestRegistryValueBeforeApply(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*model](WithNotifier(discardNotifier()))

	_, ok := r.Value(LoadSpectraLines)
	assert.False(t, ok)
}

func TestRegistryUserShadowsDefault(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*model](WithNotifier(discardNotifier()))
	custom := lines.Catalog{{Name: "X", Wavelength: 500}}

	require.NoError(t, r.Register(LoadSpectraLines, func(m *model, _ Args) any {
		assert.Equal(t, "m1", m.name)
		return custom
	}))

	res, err := r.Apply(&model{name: "m1"}, LoadSpectraLines, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceUser, res.Source)

	v, _ := r.Value(LoadSpectraLines)
	assert.Equal(t, custom, v)

	r.Unregister(LoadSpectraLines)
	_, src, ok := r.Resolve(LoadSpectraLines)
	require.True(t, ok)
	assert.Equal(t, SourceDefault, src)

	v, _ = r.Value(LoadSpectraLines)
	assert.Equal(t, custom, v, "cache changes only on Apply")
}

func TestRegistryRegisterValidation(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*model](WithNotifier(discardNotifier()))

	assert.Error(t, r.Register("", func(*model, Args) any { return nil }))
	assert.Error(t, r.Register("x", nil))
	assert.Panics(t, func() { r.MustRegister("", nil) })

	require.NoError(t, r.Register("x", func(*model, Args) any { return 1 }))
	require.NoError(t, r.Register("x", func(*model, Args) any { return 2 }), "overwrite is allowed")

	res, err := r.Apply(nil, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Value)
}

func TestRegistryUnknownCapability(t *testing.T) {
	t.Parallel()

	r := NewRegistry[*model](WithNotifier(discardNotifier()))

	_, err := r.Apply(&model{}, "zoomToFit", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCapability))

	_, ok := r.Value("zoomToFit")
	assert.False(t, ok)
}

func TestRegistryDropPinDoesNotBlock(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	got := make(chan string, 1)
	q := NewQueueNotifier(4, func(msg string) {
		<-release
		got <- msg
	}, nil)
	defer q.Close()

	r := NewRegistry[*model](WithNotifier(q))

	res, err := r.Apply(&model{}, DropPin, Args{"message": "pin dropped"})
	require.NoError(t, err)
	assert.Nil(t, res.Value)

	select {
	case <-got:
		t.Fatal("notification delivered before the worker was released")
	default:
	}

	close(release)

	select {
	case msg := <-got:
		assert.Equal(t, "pin dropped", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never delivered")
	}
}

func TestQueueNotifierCloseDrains(t *testing.T) {
	t.Parallel()

	var delivered atomic.Int32
	q := NewQueueNotifier(8, func(string) { delivered.Add(1) }, nil)

	for range 5 {
		assert.True(t, q.Notify("m"))
	}

	q.Close()
	assert.Equal(t, int32(5), delivered.Load())
	assert.False(t, q.Notify("late"))

	q.Close()
}
