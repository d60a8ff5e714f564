package viewer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cwbudde/ssv/vegalite"
	"github.com/cwbudde/ssv/vegalite/compile"
)

// MainOptions toggles optional parts of the primary view.
type MainOptions struct {
	AxisLabels      bool
	SecondaryTraces bool
}

// DefaultMainOptions enables axis titles and secondary traces.
func DefaultMainOptions() MainOptions {
	return MainOptions{AxisLabels: true, SecondaryTraces: true}
}

// CalloutOptions toggles optional parts of the callout view.
type CalloutOptions struct {
	SecondaryTraces bool
}

// DefaultCalloutOptions enables secondary traces.
func DefaultCalloutOptions() CalloutOptions {
	return CalloutOptions{SecondaryTraces: true}
}

// spectrumSpec returns the top-level skeleton shared by the main and
// callout views.
func (v *Viewer) spectrumSpec(width, height int, yMax float64) (*vegalite.Spec, error) {
	rows, err := v.PrepareRows()
	if err != nil {
		return nil, err
	}

	s := vegalite.New(width, height)
	s.Data = &vegalite.Data{Name: SpectrumData, Values: rows}
	s.Encoding = &vegalite.Encoding{X: vegalite.Quantitative(v.overlay.XAxis().Trace)}

	if t, ok := v.traces.Get("variance"); ok && t.Len() > 0 {
		s.Transform = []vegalite.Transform{
			vegalite.Calculate("-"+vegalite.Datum("variance")+"/30.0 + "+vegalite.FormatNumber(yMax), "variance2"),
		}
	}

	s.Signals = []vegalite.Signal{
		{Name: SignalTemplateOffset, Value: v.templates.Active().YOffset},
		{Name: SignalRedshift, Value: v.templates.ZFactor()},
	}

	return s, nil
}

// templateFit places the rescaled template: its amplitude inside the window
// spans target and starts at base.
type templateFit struct {
	target Range
	base   float64
	xTitle *string
}

// overlays appends the template, line and pin layers. A nil fit skips the
// template.
func (v *Viewer) overlays(s *vegalite.Spec, xr Range, fit *templateFit) {
	if fit != nil && v.templates.HasActive() {
		if layer, ok := v.templateLayer(xr, fit.target, fit.base, fit.xTitle); ok {
			s.Add(layer)
		}
	}

	if catalog, ok := v.spectralLines(); ok {
		s.Add(v.lineLayers(catalog, xr)...)
	}

	if pin, ok := v.overlay.Pin(); ok {
		s.Add(v.pinLayers(pin, xr)...)
	}
}

// BuildMainSpec assembles the primary view clipped to xr and yr.
//
// The template overlay is rescaled so that its amplitude inside xr spans
// the observed amplitude in the same window. It is omitted when either has
// no value in the window.
func (v *Viewer) BuildMainSpec(width, height int, xr, yr Range, opts MainOptions) (*vegalite.Spec, error) {
	s, err := v.spectrumSpec(width, height, yr.Max)
	if err != nil {
		return nil, err
	}

	xTitle, yTitle := v.overlay.XAxis().Title, v.overlay.YAxis().Title
	if !opts.AxisLabels {
		xTitle, yTitle = "", ""
	}

	primary := v.primaryLayer(xr, yr, yTitle)
	primary.Encoding.X = vegalite.Quantitative(v.overlay.XAxis().Trace).WithTitle(xTitle)
	primary.Selection = map[string]vegalite.Selection{selectionGrid: vegalite.PanZoom()}
	s.Add(primary)

	if opts.SecondaryTraces {
		s.Add(v.secondaryLayers(yr, yTitle)...)
	}

	var fit *templateFit
	if obs, ok := v.observedRange(xr); ok {
		fit = &templateFit{target: obs, base: yr.Min}
	} else if v.templates.HasActive() {
		v.log.Debug("no observed values in window, template omitted", "min", xr.Min, "max", xr.Max)
	}

	v.overlays(s, xr, fit)

	return s, nil
}

// MainSpec builds and compiles the primary view, then attaches the
// templateOffset and redshift signals to the compiled document.
func (v *Viewer) MainSpec(ctx context.Context, width, height int, xr, yr Range, opts MainOptions) (compile.Vega, error) {
	s, err := v.BuildMainSpec(width, height, xr, yr, opts)
	if err != nil {
		return nil, err
	}

	return v.compileSpectrum(ctx, s)
}

// BuildCalloutSpec assembles the callout view. The y range is the unclipped
// extent of the y-axis trace, there is no pan/zoom and the x-axis title sits
// on the template overlay.
func (v *Viewer) BuildCalloutSpec(width, height int, xr Range, opts CalloutOptions) (*vegalite.Spec, error) {
	yName := v.overlay.YAxis().Trace

	lo, okLo := v.traces.Min(yName)
	hi, okHi := v.traces.Max(yName)
	if !okLo || !okHi {
		return nil, fmt.Errorf("%w: y axis %q has no range", ErrUnknownTrace, yName)
	}

	yr := Range{Min: lo, Max: hi}

	s, err := v.spectrumSpec(width, height, yr.Max)
	if err != nil {
		return nil, err
	}

	yTitle := v.overlay.YAxis().Title
	s.Add(v.primaryLayer(xr, yr, yTitle))

	if opts.SecondaryTraces {
		s.Add(v.secondaryLayers(yr, yTitle)...)
	}

	xTitle := v.overlay.XAxis().Title
	v.overlays(s, xr, &templateFit{target: yr, base: yr.Min, xTitle: &xTitle})

	return s, nil
}

// CalloutSpec builds and compiles the callout view.
func (v *Viewer) CalloutSpec(ctx context.Context, width, height int, xr Range, opts CalloutOptions) (compile.Vega, error) {
	s, err := v.BuildCalloutSpec(width, height, xr, opts)
	if err != nil {
		return nil, err
	}

	return v.compileSpectrum(ctx, s)
}

func (v *Viewer) compileSpectrum(ctx context.Context, s *vegalite.Spec) (compile.Vega, error) {
	out, err := v.cfg.Compiler.Compile(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("viewer: compile %s: %w", v.name, err)
	}

	out.AppendSignal(SignalTemplateOffset, v.templates.Active().YOffset)
	out.AppendSignal(SignalRedshift, v.templates.ZFactor())

	return out, nil
}

// redshiftLabel formats z for the cross-correlation marker.
func redshiftLabel(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64)
}

// BuildCrossCorrelationSpec assembles the correlation-against-redshift
// view. The x range comes from the clip bounds of the x-axis trace and the y
// range from those of the y-axis trace. Every vertical rule is drawn at its
// position plus the current redshift.
func (v *Viewer) BuildCrossCorrelationSpec(width, height int) (*vegalite.Spec, error) {
	xName, yName := v.overlay.XAxis().Trace, v.overlay.YAxis().Trace

	xr, err := v.clipRange(xName)
	if err != nil {
		return nil, err
	}

	yr, err := v.clipRange(yName)
	if err != nil {
		return nil, err
	}

	rows, err := v.PrepareRows()
	if err != nil {
		return nil, err
	}

	s := vegalite.New(width, height)
	s.Data = &vegalite.Data{Name: SpectrumData, Values: rows}
	s.Encoding = &vegalite.Encoding{X: vegalite.Quantitative(xName).WithoutAxis()}
	s.Signals = []vegalite.Signal{
		{Name: SignalRedshift, Value: v.templates.Redshift()},
		{Name: SignalXCorLabel, Value: "starting"},
	}

	s.Add(vegalite.Layer{
		Mark: vegalite.Line(),
		Encoding: vegalite.Encoding{
			Y:       vegalite.Quantitative(yName).WithDomain(yr.Min, yr.Max).WithoutAxis(),
			Color:   vegalite.Value(v.cfg.Style.Primary),
			Size:    v.strokeWidth(),
			Tooltip: vegalite.Quantitative(yName),
		},
	})

	label := redshiftLabel(v.templates.Redshift())
	for _, rule := range v.overlay.VRules() {
		s.Add(v.vruleLayers(rule, xr, label)...)
	}

	return s, nil
}

// CrossCorrelationSpec builds and compiles the cross-correlation view. The
// compiled signals are replaced by redshift and xcorlabel.
func (v *Viewer) CrossCorrelationSpec(ctx context.Context, width, height int) (compile.Vega, error) {
	s, err := v.BuildCrossCorrelationSpec(width, height)
	if err != nil {
		return nil, err
	}

	out, err := v.cfg.Compiler.Compile(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("viewer: compile %s: %w", v.name, err)
	}

	z := v.templates.Redshift()
	out.ResetSignals()
	out.AppendSignal(SignalRedshift, z)
	out.AppendSignal(SignalXCorLabel, redshiftLabel(z))

	return out, nil
}

func (v *Viewer) clipRange(name string) (Range, error) {
	lo, okLo := v.traces.MinClip(name)
	hi, okHi := v.traces.MaxClip(name)
	if !okLo || !okHi {
		return Range{}, fmt.Errorf("%w: %q has no clip bounds", ErrUnknownTrace, name)
	}

	return Range{Min: lo, Max: hi}, nil
}
