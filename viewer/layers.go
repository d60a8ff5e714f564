package viewer

import (
	"math"

	"github.com/cwbudde/ssv/vegalite"
	"github.com/cwbudde/ssv/viewer/lines"
	"github.com/cwbudde/ssv/viewer/overlay"
	"github.com/cwbudde/ssv/viewer/template"
)

// Field names and signals shared by the generated layers.
const (
	SpectrumData = "spectrum"

	SignalRedshift       = "redshift"
	SignalTemplateOffset = "templateOffset"
	SignalXCorLabel      = "xcorlabel"

	selectionGrid = "grid"

	fieldWavelength  = "wavelength"
	fieldIntensity   = "intensity"
	fieldWavelengthT = "wavelengthT"
	fieldIntensityT  = "intensityT"
	fieldLabel       = "label"
	fieldZs          = "zs"
	fieldZsT         = "zsT"
	fieldXCor        = "xcor"

	derivedSuffix   = "T"
	secondaryPrefix = "secondary"
	labelFontSize   = 20
	pinInnerSize    = 15
	pinOuterSize    = 120
	ruleStrokeWidth = 1
	lineUnitScale   = 10.0
)

// Range is a closed interval of data values.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Width returns Max - Min.
func (r Range) Width() float64 { return r.Max - r.Min }

func (r Range) filter(field string) vegalite.Transform {
	return vegalite.FilterRange(field, r.Min, r.Max)
}

var dash = []float64{16, 16}

func (v *Viewer) strokeWidth() *vegalite.Channel {
	return vegalite.Value(v.cfg.Style.StrokeWidth)
}

// primaryLayer draws the smoothed y-axis trace.
func (v *Viewer) primaryLayer(xr, yr Range, yTitle string) vegalite.Layer {
	yName := v.overlay.YAxis().Trace

	return vegalite.Layer{
		Mark: vegalite.Line(),
		Transform: []vegalite.Transform{
			xr.filter(v.overlay.XAxis().Trace),
			vegalite.MovingMean(yName, fieldIntensityT, v.cfg.SmoothHalfWidth),
		},
		Encoding: vegalite.Encoding{
			Y:     vegalite.Quantitative(fieldIntensityT).WithDomain(yr.Min, yr.Max).WithTitle(yTitle),
			Color: vegalite.Value(v.cfg.Style.Primary),
			Size:  v.strokeWidth(),
		},
	}
}

// secondaryLayers draws every visible non-axis trace. A non-zero offset
// moves the trace through a derived field.
func (v *Viewer) secondaryLayers(yr Range, yTitle string) []vegalite.Layer {
	xName, yName := v.overlay.XAxis().Trace, v.overlay.YAxis().Trace

	var out []vegalite.Layer
	for _, name := range v.traces.Names() {
		if name == xName || name == yName {
			continue
		}

		t, _ := v.traces.Get(name)
		if t.Len() == 0 || !t.Visible {
			continue
		}

		xKey, yKey := xName, name
		tr := []vegalite.Transform{yr.filter(name)}

		if t.XOffset != 0 {
			xKey += derivedSuffix
			tr = append(tr, vegalite.Calculate(vegalite.Datum(xName)+" + "+vegalite.FormatNumber(t.XOffset), xKey))
		}

		if t.YOffset != 0 {
			yKey += derivedSuffix
			tr = append(tr, vegalite.Calculate(vegalite.Datum(name)+" + "+vegalite.FormatNumber(t.YOffset), yKey))
		}

		out = append(out, vegalite.Layer{
			Name:      secondaryPrefix + name,
			Mark:      vegalite.Line(),
			Transform: tr,
			Encoding: vegalite.Encoding{
				X:     vegalite.Quantitative(xKey),
				Y:     vegalite.Quantitative(yKey).WithDomain(yr.Min, yr.Max).WithTitle(yTitle),
				Color: vegalite.Value(t.Colour),
				Size:  v.strokeWidth(),
			},
		})
	}

	return out
}

// observedRange returns the extent of the finite y values whose x lies in
// the window.
func (v *Viewer) observedRange(xr Range) (Range, bool) {
	x, okX := v.traces.Get(v.overlay.XAxis().Trace)
	y, okY := v.traces.Get(v.overlay.YAxis().Trace)
	if !okX || !okY {
		return Range{}, false
	}

	out := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false

	for i := 0; i < x.Len(); i++ {
		yv := y.At(i)
		if math.IsNaN(yv) || !xr.Contains(x.Values[i]) {
			continue
		}

		out.Min = math.Min(out.Min, yv)
		out.Max = math.Max(out.Max, yv)
		found = true
	}

	return out, found
}

// templateWindowRange returns the extent of the finite template values whose
// redshifted wavelength lies in the window.
func templateWindowRange(data template.Pair, zFactor float64, xr Range) (Range, bool) {
	out := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	found := false

	for i := 0; i < data.Len(); i++ {
		yv := data.Y[i]
		if math.IsNaN(yv) || !xr.Contains(data.X[i]*zFactor) {
			continue
		}

		out.Min = math.Min(out.Min, yv)
		out.Max = math.Max(out.Max, yv)
		found = true
	}

	return out, found
}

// templateLayer rescales the active template so that its amplitude inside
// the window spans target, starting at base. It returns false when the
// template does not overlap the window.
func (v *Viewer) templateLayer(xr Range, target Range, base float64, xTitle *string) (vegalite.Layer, bool) {
	active := v.templates.Active()

	tr, ok := templateWindowRange(active.Data, v.templates.ZFactor(), xr)
	if !ok {
		v.log.Debug("template outside window", "template", active.ID, "min", xr.Min, "max", xr.Max)
		return vegalite.Layer{}, false
	}

	sf := 1.0
	if w := tr.Width(); w != 0 {
		sf = target.Width() / w
	}

	values := make([]vegalite.Record, 0, active.Data.Len())
	for i := 0; i < active.Data.Len(); i++ {
		yv := active.Data.Y[i]
		if math.IsNaN(yv) {
			continue
		}

		values = append(values, vegalite.NewRecord(
			fieldWavelength, active.Data.X[i],
			fieldIntensity, (yv-tr.Min)*sf+base,
		))
	}

	x := vegalite.Quantitative(fieldWavelengthT)
	if xTitle != nil {
		x.WithTitle(*xTitle)
	}

	return vegalite.Layer{
		Data: &vegalite.Data{Values: values},
		Mark: vegalite.Line(),
		Transform: []vegalite.Transform{
			vegalite.Calculate(vegalite.Datum(fieldWavelength)+" * "+SignalRedshift, fieldWavelengthT),
			vegalite.Calculate(vegalite.Datum(fieldIntensity)+" + "+SignalTemplateOffset+"*10.0", fieldIntensityT),
			xr.filter(fieldWavelengthT),
		},
		Encoding: vegalite.Encoding{
			X:     x,
			Y:     vegalite.Quantitative(fieldIntensityT),
			Color: vegalite.Value(v.cfg.Style.Template),
			Size:  v.strokeWidth(),
		},
	}, true
}

// lineLayers draws the spectral-line catalog as dashed rules with labels,
// shifted into the observed frame.
func (v *Viewer) lineLayers(catalog lines.Catalog, xr Range) []vegalite.Layer {
	values := make([]vegalite.Record, len(catalog))
	for i, l := range catalog {
		values[i] = vegalite.NewRecord(fieldWavelength, l.Wavelength*lineUnitScale, fieldLabel, l.Name)
	}

	shift := func() []vegalite.Transform {
		return []vegalite.Transform{
			vegalite.Calculate(vegalite.Datum(fieldWavelength)+" * "+SignalRedshift, fieldWavelengthT),
			xr.filter(fieldWavelengthT),
		}
	}

	rule := vegalite.Layer{
		Data:      &vegalite.Data{Values: values},
		Mark:      vegalite.Rule(),
		Transform: shift(),
		Encoding: vegalite.Encoding{
			X:          vegalite.Quantitative(fieldWavelengthT),
			StrokeDash: vegalite.Value(dash),
			Color:      vegalite.Value(v.cfg.Style.Lines),
			Size:       vegalite.Value(ruleStrokeWidth),
		},
	}

	label := vegalite.Layer{
		Data:      &vegalite.Data{Values: values},
		Mark:      vegalite.Label(labelFontSize),
		Transform: shift(),
		Encoding: vegalite.Encoding{
			X:    vegalite.Quantitative(fieldWavelengthT),
			Y:    vegalite.Value(0),
			Text: vegalite.Nominal(fieldLabel),
		},
	}

	return []vegalite.Layer{rule, label}
}

// pinLayers draws the pick point as a small disc on a larger one.
func (v *Viewer) pinLayers(pin overlay.Pin, xr Range) []vegalite.Layer {
	disc := func(size float64) vegalite.Layer {
		return vegalite.Layer{
			Data:      &vegalite.Data{Values: []vegalite.Record{vegalite.NewRecord(fieldWavelength, pin.X, fieldIntensity, pin.Y)}},
			Mark:      vegalite.Point(),
			Transform: []vegalite.Transform{xr.filter(fieldWavelength)},
			Encoding: vegalite.Encoding{
				X:     vegalite.Quantitative(fieldWavelength),
				Y:     vegalite.Quantitative(fieldIntensity),
				Shape: vegalite.Value("circle"),
				Size:  vegalite.Value(size),
				Color: vegalite.Value(v.cfg.Style.Pin),
			},
		}
	}

	return []vegalite.Layer{disc(pinInnerSize), disc(pinOuterSize)}
}

// vruleLayers draws a named rule and its redshift label, both shifted by
// the redshift signal.
func (v *Viewer) vruleLayers(rule overlay.VRule, xr Range, label string) []vegalite.Layer {
	shift := func() []vegalite.Transform {
		return []vegalite.Transform{
			vegalite.Calculate(vegalite.Datum(fieldZs)+" + "+SignalRedshift, fieldZsT),
			xr.filter(fieldZsT),
		}
	}

	return []vegalite.Layer{
		{
			Name:      rule.Name,
			Data:      &vegalite.Data{Values: []vegalite.Record{vegalite.NewRecord(fieldZs, rule.X)}},
			Mark:      vegalite.Rule(),
			Transform: shift(),
			Encoding: vegalite.Encoding{
				X:          vegalite.Quantitative(fieldZsT),
				StrokeDash: vegalite.Value(dash),
				Color:      vegalite.Value(v.cfg.Style.Lines),
				Size:       vegalite.Value(ruleStrokeWidth),
			},
		},
		{
			Data:      &vegalite.Data{Values: []vegalite.Record{vegalite.NewRecord(fieldZs, rule.X, fieldXCor, 0.0)}},
			Mark:      vegalite.Text(),
			Transform: shift(),
			Encoding: vegalite.Encoding{
				X:    vegalite.Quantitative(fieldZsT),
				Y:    vegalite.Value(0),
				Text: vegalite.Value(label),
			},
		},
	}
}
