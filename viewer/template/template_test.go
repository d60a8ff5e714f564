package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleTemplates() []Template {
	return []Template{
		{ID: "1", Name: "Early type absorption galaxy"},
		{ID: "2", Name: "Intermediate type galaxy"},
		{ID: "3", Name: "Intermediate type galaxy"},
	}
}

func TestCatalogLookups(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	c.SetTemplates(sampleTemplates())

	assert.Equal(t, []string{"1", "2", "3"}, c.IDs())
	assert.Len(t, c.Names(), 3)

	tpl, ok := c.ByID("2")
	require.True(t, ok)
	assert.Equal(t, "Intermediate type galaxy", tpl.Name)

	tpl, ok = c.ByName("Intermediate type galaxy")
	require.True(t, ok)
	assert.Equal(t, "2", tpl.ID, "first match wins")

	_, ok = c.ByID("42")
	assert.False(t, ok)

	_, ok = c.ByName("quasar")
	assert.False(t, ok)
}

func TestCatalogActiveSelection(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	assert.False(t, c.HasActive())

	c.SetActiveYOffset(3)
	c.SetActive("unknown-id", Pair{X: []float64{1}, Y: []float64{2}}, 0.1)

	require.True(t, c.HasActive(), "ids are not validated against the catalog")
	active := c.Active()
	assert.Equal(t, "unknown-id", active.ID)
	assert.Equal(t, 0.1, active.Redshift)
	assert.Equal(t, 3.0, active.YOffset)

	c.ClearActive()
	assert.False(t, c.HasActive())
	assert.Equal(t, 3.0, c.Active().YOffset)
}

func TestCatalogZFactorDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, NewCatalog().ZFactor())
}

func TestCatalogZFactorTracksInputs(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		c := NewCatalog()
		z := rapid.Float64Range(-0.5, 10).Draw(t, "z")
		zt := rapid.Float64Range(-0.5, 10).Draw(t, "zt")

		if rapid.Bool().Draw(t, "redshiftFirst") {
			c.SetRedshift(z)
			c.SetActive("t", Pair{}, zt)
		} else {
			c.SetActive("t", Pair{}, zt)
			c.SetRedshift(z)
		}

		want := (1 + z) / (1 + zt)
		if c.ZFactor() != want {
			t.Fatalf("zFactor %v, want %v", c.ZFactor(), want)
		}
	})
}

func TestPairLen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Pair{X: []float64{1, 2, 3}, Y: []float64{1, 2}}.Len())
}
