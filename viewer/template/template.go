// Package template manages the comparison spectra that can be overlaid on an
// observed spectrum and the redshift used to align them.
package template

// Pair holds the wavelength and amplitude columns of a template.
type Pair struct {
	X []float64
	Y []float64
}

// Len returns the number of index-aligned points.
func (p Pair) Len() int {
	return min(len(p.X), len(p.Y))
}

// Template is one candidate comparison spectrum.
type Template struct {
	ID   string
	Name string
	Data Pair
}

// Active is the template currently overlaid on the data.
type Active struct {
	ID       string
	Data     Pair
	Redshift float64 // redshift already applied to Data
	YOffset  float64 // display offset, scaled by 10 when drawn
}

// Catalog owns the template list, the active selection and the redshift
// state. ZFactor is kept consistent with its inputs on every write.
type Catalog struct {
	templates []Template
	active    Active
	z         float64
	zFactor   float64
}

// NewCatalog returns an empty catalog at redshift zero.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.updateZFactor()

	return c
}

func (c *Catalog) updateZFactor() {
	c.zFactor = (1 + c.z) / (1 + c.active.Redshift)
}

// SetTemplates replaces the catalog contents.
func (c *Catalog) SetTemplates(templates []Template) {
	c.templates = append([]Template(nil), templates...)
}

// Templates returns the catalog contents.
func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

// IDs returns the template ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.ID
	}

	return out
}

// Names returns the template display names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.Name
	}

	return out
}

// ByID returns the first template with the given id.
func (c *Catalog) ByID(id string) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}

	return Template{}, false
}

// ByName returns the first template with the given display name.
func (c *Catalog) ByName(name string) (Template, bool) {
	for _, t := range c.templates {
		if t.Name == name {
			return t, true
		}
	}

	return Template{}, false
}

// SetActive selects the overlay template. The id is not checked against the
// catalog. The y offset of the previous selection is kept.
func (c *Catalog) SetActive(id string, data Pair, redshift float64) {
	c.active.ID = id
	c.active.Data = data
	c.active.Redshift = redshift
	c.updateZFactor()
}

// ClearActive removes the overlay template.
func (c *Catalog) ClearActive() {
	c.active = Active{YOffset: c.active.YOffset}
	c.updateZFactor()
}

// Active returns the active selection.
func (c *Catalog) Active() Active { return c.active }

// HasActive reports whether a template is selected.
func (c *Catalog) HasActive() bool { return c.active.ID != "" }

// SetActiveYOffset sets the display offset of the overlay.
func (c *Catalog) SetActiveYOffset(off float64) {
	c.active.YOffset = off
}

// SetRedshift sets the observed redshift.
func (c *Catalog) SetRedshift(z float64) {
	c.z = z
	c.updateZFactor()
}

// Redshift returns the observed redshift.
func (c *Catalog) Redshift() float64 { return c.z }

// ZFactor returns (1+z)/(1+zt), the multiplier mapping template
// wavelengths into the observed frame.
func (c *Catalog) ZFactor() float64 { return c.zFactor }
