// Package lines provides the catalog of spectral-line markers drawn over a
// spectrum.
package lines

// Line is one atomic or ionic transition.
type Line struct {
	Name       string
	Wavelength float64 // rest wavelength in nm
}

// Catalog is an ordered list of transitions.
type Catalog []Line

// Names returns the line labels in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, len(c))
	for i, l := range c {
		out[i] = l.Name
	}

	return out
}

// Wavelengths returns the rest wavelengths in catalog order.
func (c Catalog) Wavelengths() []float64 {
	out := make([]float64, len(c))
	for i, l := range c {
		out[i] = l.Wavelength
	}

	return out
}

var defaultLines = Catalog{
	{"Lyβ", 102.5722},
	{"Lyα", 121.5670},
	{"[NV]", 124.014},
	{"Si4", 140.00},
	{"CIV", 154.906},
	{"CIII", 190.873},
	{"MgII", 279.875},
	{"[OII]", 372.8485},
	{"[NeIII]", 386.981},
	{"K", 393.3663},
	{"H", 396.8468},
	{"Hδ", 410.292},
	{"G-band", 430.44},
	{"Hγ", 434.169},
	{"Hβ", 486.1325},
	{"[OIII]", 495.8911},
	{"[OIII]", 500.6843},
	{"Mg", 517.53},
	{"Na", 589.40},
	{"[NII]", 654.984},
	{"Hα", 656.280},
	{"[NII]", 658.523},
	{"[SII]", 671.832},
	{"[SII]", 673.271},
}

// Default returns a copy of the built-in 24 line catalog.
func Default() Catalog {
	return append(Catalog(nil), defaultLines...)
}
