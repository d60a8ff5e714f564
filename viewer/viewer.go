package viewer

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/ssv/viewer/capability"
	"github.com/cwbudde/ssv/viewer/lines"
	"github.com/cwbudde/ssv/viewer/overlay"
	"github.com/cwbudde/ssv/viewer/template"
	"github.com/cwbudde/ssv/viewer/trace"
)

// Viewer is the model of one spectrum chart: its traces, overlays, template
// selection and capabilities.
type Viewer struct {
	name string
	cfg  Config
	log  *slog.Logger

	traces    *trace.Store
	overlay   *overlay.State
	templates *template.Catalog
	caps      *capability.Registry[*Viewer]

	// ownsNotifier is set when the registry started its own queue.
	ownsNotifier bool
}

// New returns an empty viewer.
func New(name string, opts ...Option) *Viewer {
	cfg := ApplyOptions(opts...)

	regOpts := []capability.Option{capability.WithLogger(cfg.Logger)}
	if cfg.Notifier != nil {
		regOpts = append(regOpts, capability.WithNotifier(cfg.Notifier))
	}

	return &Viewer{
		name:         name,
		cfg:          cfg,
		log:          cfg.Logger.With("viewer", name),
		traces:       trace.NewStore(trace.WithLogger(cfg.Logger)),
		overlay:      overlay.New(),
		templates:    template.NewCatalog(),
		caps:         capability.NewRegistry[*Viewer](regOpts...),
		ownsNotifier: cfg.Notifier == nil,
	}
}

// Name returns the viewer name.
func (v *Viewer) Name() string { return v.name }

// Traces returns the trace store.
func (v *Viewer) Traces() *trace.Store { return v.traces }

// Overlay returns the overlay state.
func (v *Viewer) Overlay() *overlay.State { return v.overlay }

// Templates returns the template catalog.
func (v *Viewer) Templates() *template.Catalog { return v.templates }

// Capabilities returns the capability registry.
func (v *Viewer) Capabilities() *capability.Registry[*Viewer] { return v.caps }

// Initialise loads the spectral lines and templates through their
// capabilities. A loadTemplates result of type []template.Template replaces
// the catalog.
func (v *Viewer) Initialise() error {
	args := capability.Args{"message": "loading"}

	if _, err := v.Apply(capability.LoadSpectraLines, args); err != nil {
		return err
	}

	res, err := v.Apply(capability.LoadTemplates, args)
	if err != nil {
		return err
	}

	switch t := res.Value.(type) {
	case []template.Template:
		v.templates.SetTemplates(t)
	case nil:
	default:
		v.log.Warn("ignoring loadTemplates result", "type", fmt.Sprintf("%T", t))
	}

	v.log.Debug("viewer initialised", "templates", len(v.templates.Templates()))

	return nil
}

// Close stops the notifier queue started by New. A notifier passed with
// [WithNotifier] is left to its owner.
func (v *Viewer) Close() {
	if !v.ownsNotifier {
		return
	}

	if c, ok := v.caps.Notifier().(interface{ Close() }); ok {
		c.Close()
	}
}

// SetSmoothHalfWidth sets the moving-mean half width of the primary trace.
// Negative values are ignored, as with [WithSmoothHalfWidth].
func (v *Viewer) SetSmoothHalfWidth(halfWidth int) {
	if halfWidth < 0 {
		return
	}

	v.cfg.SmoothHalfWidth = halfWidth
}

// SmoothHalfWidth returns the moving-mean half width.
func (v *Viewer) SmoothHalfWidth() int { return v.cfg.SmoothHalfWidth }

// Traces

// SetTrace replaces the named trace with a copy of values.
func (v *Viewer) SetTrace(name string, values []float64) { v.traces.Set(name, values) }

// Trace returns the values of the named trace.
func (v *Viewer) Trace(name string) ([]float64, bool) { return v.traces.Values(name) }

// TraceMin returns the smallest finite value of the named trace.
func (v *Viewer) TraceMin(name string) (float64, bool) { return v.traces.Min(name) }

// TraceMax returns the largest finite value of the named trace.
func (v *Viewer) TraceMax(name string) (float64, bool) { return v.traces.Max(name) }

// TraceMinClip returns the lower display bound of the named trace.
func (v *Viewer) TraceMinClip(name string) (float64, bool) { return v.traces.MinClip(name) }

// TraceMaxClip returns the upper display bound of the named trace.
func (v *Viewer) TraceMaxClip(name string) (float64, bool) { return v.traces.MaxClip(name) }

// SetTraceMinClip sets the lower display bound of the named trace.
func (v *Viewer) SetTraceMinClip(name string, clip float64) { v.traces.SetMinClip(name, clip) }

// SetTraceMaxClip sets the upper display bound of the named trace.
func (v *Viewer) SetTraceMaxClip(name string, clip float64) { v.traces.SetMaxClip(name, clip) }

// TraceVisibility reports whether the named trace is drawn.
func (v *Viewer) TraceVisibility(name string) (bool, bool) { return v.traces.Visible(name) }

// SetTraceVisibility shows or hides the named trace.
func (v *Viewer) SetTraceVisibility(name string, visible bool) {
	v.traces.SetVisibility(name, visible)
}

// SetTraceXOffset sets the display x offset of the named trace.
func (v *Viewer) SetTraceXOffset(name string, off float64) { v.traces.SetXOffset(name, off) }

// SetTraceYOffset sets the display y offset of the named trace.
func (v *Viewer) SetTraceYOffset(name string, off float64) { v.traces.SetYOffset(name, off) }

// SetTraceColour sets the stroke colour of the named trace.
func (v *Viewer) SetTraceColour(name, colour string) { v.traces.SetColour(name, colour) }

// Overlays

// SetXAxisTitle binds the x axis to traceName and titles it.
func (v *Viewer) SetXAxisTitle(traceName, title string) { v.overlay.SetXAxisTitle(traceName, title) }

// SetYAxisTitle binds the y axis to traceName and titles it.
func (v *Viewer) SetYAxisTitle(traceName, title string) { v.overlay.SetYAxisTitle(traceName, title) }

// AddPin places the pick point.
func (v *Viewer) AddPin(name string, x, y float64) {
	v.overlay.AddPin(name, x, y)
	v.log.Debug("pin added", "x", x, "y", y)
}

// Pin returns the pick point.
func (v *Viewer) Pin() (overlay.Pin, bool) { return v.overlay.Pin() }

// DropPin places the pick point and fires the dropPin capability with
// message. It does not wait for the notification.
func (v *Viewer) DropPin(name string, x, y float64, message string) error {
	v.AddPin(name, x, y)

	_, err := v.Apply(capability.DropPin, capability.Args{"message": message, "x": x, "y": y})

	return err
}

// SetVRule sets a named vertical rule.
func (v *Viewer) SetVRule(name string, x float64) { v.overlay.SetVRule(name, x) }

// Templates

// SetTemplates replaces the template list.
func (v *Viewer) SetTemplates(list []template.Template) { v.templates.SetTemplates(list) }

// TemplateIDs returns the template ids in list order.
func (v *Viewer) TemplateIDs() []string { return v.templates.IDs() }

// TemplateNames returns the template names in list order.
func (v *Viewer) TemplateNames() []string { return v.templates.Names() }

// TemplateByID looks a template up by id.
func (v *Viewer) TemplateByID(id string) (template.Template, bool) { return v.templates.ByID(id) }

// TemplateByName looks a template up by name.
func (v *Viewer) TemplateByName(name string) (template.Template, bool) {
	return v.templates.ByName(name)
}

// SetActiveTemplate selects the template overlaid on the spectrum.
func (v *Viewer) SetActiveTemplate(id string, data template.Pair, redshift float64) {
	v.templates.SetActive(id, data, redshift)
}

// ActiveTemplateID returns the id of the active template, or "".
func (v *Viewer) ActiveTemplateID() string { return v.templates.Active().ID }

// SetRedshift sets the redshift applied to the active template.
func (v *Viewer) SetRedshift(z float64) { v.templates.SetRedshift(z) }

// SetActiveTemplateYOffset sets the display offset of the active template.
func (v *Viewer) SetActiveTemplateYOffset(off float64) { v.templates.SetActiveYOffset(off) }

// Capabilities

// Register adds a user capability shadowing any default of the same name.
func (v *Viewer) Register(name string, exec capability.Exec[*Viewer]) error {
	return v.caps.Register(name, exec)
}

// Apply runs the named capability on v.
func (v *Viewer) Apply(name string, args capability.Args) (capability.Result, error) {
	return v.caps.Apply(v, name, args)
}

// Value returns the cached result of the most recent Apply of name.
func (v *Viewer) Value(name string) (any, bool) { return v.caps.Value(name) }

// spectralLines returns the cached loadSpectraLines result.
func (v *Viewer) spectralLines() (lines.Catalog, bool) {
	raw, ok := v.Value(capability.LoadSpectraLines)
	if !ok {
		v.log.Warn("spectral lines not loaded", "capability", capability.LoadSpectraLines)
		return nil, false
	}

	switch c := raw.(type) {
	case lines.Catalog:
		return c, true
	case []lines.Line:
		return lines.Catalog(c), true
	default:
		v.log.Warn("ignoring spectral lines", "type", fmt.Sprintf("%T", raw))
		return nil, false
	}
}
