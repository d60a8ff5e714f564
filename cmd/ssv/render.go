package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ssv/marz"
	"github.com/cwbudde/ssv/viewer"
	"github.com/cwbudde/ssv/viewer/capability"
	"github.com/cwbudde/ssv/viewer/template"
	"github.com/cwbudde/ssv/xcorr"
)

// Views accepted by spec and watch.
const (
	viewMain    = "main"
	viewCallout = "callout"
	viewXCorr   = "xcorr"
)

// Size of the cross-correlation strip when --width/--height are not given.
const (
	xcorrWidth  = 1500
	xcorrHeight = 100
)

var (
	errNoTemplate = errors.New("a template is required (--template)")
	errBadPin     = errors.New("--pin takes exactly two values: x,y")
	errBadView    = errors.New("view must be main, callout or xcorr")
)

// renderFlags are the inputs shared by spec and watch.
type renderFlags struct {
	templatePath string
	templateID   string
	redshift     float64
	fit          bool
	zMin, zMax   float64
	pin          []float64
	xMin, xMax   float64
	yMin, yMax   float64
	noLabels     bool
	noSecondary  bool
	lite         bool
	out          string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.templatePath, "template", "t", "", "JSON file with comparison templates")
	fs.StringVar(&f.templateID, "template-id", "", "template to overlay (default: first in file)")
	fs.Float64VarP(&f.redshift, "redshift", "z", 0, "redshift applied to the template")
	fs.BoolVar(&f.fit, "fit", false, "set the redshift from the cross-correlation peak")
	fs.Float64Var(&f.zMin, "zmin", 0, "lowest redshift of the cross-correlation scan")
	fs.Float64Var(&f.zMax, "zmax", 1.5, "highest redshift of the cross-correlation scan")
	fs.Float64SliceVar(&f.pin, "pin", nil, "pin marker position as x,y")
	fs.Float64Var(&f.xMin, "xmin", 0, "lowest wavelength shown (default: data minimum)")
	fs.Float64Var(&f.xMax, "xmax", 0, "highest wavelength shown (default: data maximum)")
	fs.Float64Var(&f.yMin, "ymin", 0, "lowest intensity shown (default: data minimum)")
	fs.Float64Var(&f.yMax, "ymax", 0, "highest intensity shown (default: data maximum)")
	fs.BoolVar(&f.noLabels, "no-labels", false, "hide axis titles in the main view")
	fs.BoolVar(&f.noSecondary, "no-secondary", false, "draw only the primary trace")
	fs.BoolVar(&f.lite, "lite", false, "write the vega-lite spec instead of compiling it")
	fs.StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
}

// renderer turns one spectrum file into chart JSON.
type renderer struct {
	app   *app
	flags *renderFlags
	cmd   *cobra.Command
}

func (r *renderer) render(ctx context.Context, view, spectrumPath string) ([]byte, error) {
	switch view {
	case viewMain, viewCallout, viewXCorr:
	default:
		return nil, fmt.Errorf("%w: %q", errBadView, view)
	}

	v, err := r.newViewer(spectrumPath)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	if view == viewXCorr || r.flags.fit {
		xv, err := r.crossCorrelate(v)
		if err != nil {
			return nil, err
		}
		defer xv.Close()

		if view == viewXCorr {
			return r.xcorrChart(ctx, xv)
		}

		v.SetRedshift(xv.Templates().Redshift())
	}

	xr, yr := r.ranges(v)

	width, height := r.app.cfg.Width, r.app.cfg.Height

	var chart any
	switch view {
	case viewMain:
		opts := viewer.MainOptions{AxisLabels: !r.flags.noLabels, SecondaryTraces: !r.flags.noSecondary}
		if r.flags.lite {
			chart, err = v.BuildMainSpec(width, height, xr, yr, opts)
		} else {
			chart, err = v.MainSpec(ctx, width, height, xr, yr, opts)
		}
	case viewCallout:
		opts := viewer.CalloutOptions{SecondaryTraces: !r.flags.noSecondary}
		if r.flags.lite {
			chart, err = v.BuildCalloutSpec(width, height, xr, opts)
		} else {
			chart, err = v.CalloutSpec(ctx, width, height, xr, opts)
		}
	}

	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(chart, "", "  ")
}

func (r *renderer) newViewer(spectrumPath string) (*viewer.Viewer, error) {
	cfg := r.app.cfg

	v := viewer.New("ssv",
		viewer.WithLogger(r.app.logger),
		viewer.WithCompiler(r.app.compiler),
		viewer.WithSmoothHalfWidth(cfg.SmoothHalfWidth),
		viewer.WithStyle(viewer.Style{
			Primary:     cfg.Style.Primary,
			Template:    cfg.Style.Template,
			Lines:       cfg.Style.Lines,
			Pin:         cfg.Style.Pin,
			StrokeWidth: cfg.Style.StrokeWidth,
		}),
	)

	spectrum, err := readSpectrum(spectrumPath)
	if err != nil {
		v.Close()
		return nil, err
	}
	marz.Load(v, spectrum)

	if r.flags.templatePath != "" {
		list, err := readTemplates(r.flags.templatePath)
		if err != nil {
			v.Close()
			return nil, err
		}

		if err := v.Register(capability.LoadTemplates, func(*viewer.Viewer, capability.Args) any { return list }); err != nil {
			v.Close()
			return nil, err
		}
	}

	if err := v.Initialise(); err != nil {
		v.Close()
		return nil, err
	}

	if err := r.activateTemplate(v); err != nil {
		v.Close()
		return nil, err
	}

	if len(r.flags.pin) > 0 {
		if len(r.flags.pin) != 2 {
			v.Close()
			return nil, errBadPin
		}

		x, y := r.flags.pin[0], r.flags.pin[1]
		if err := v.DropPin("pin", x, y, fmt.Sprintf("pin dropped at %g, %g", x, y)); err != nil {
			v.Close()
			return nil, err
		}
	}

	return v, nil
}

func (r *renderer) activateTemplate(v *viewer.Viewer) error {
	ids := v.TemplateIDs()
	if len(ids) == 0 {
		if r.flags.templateID != "" {
			return fmt.Errorf("template %q: %w", r.flags.templateID, errNoTemplate)
		}
		return nil
	}

	id := r.flags.templateID
	if id == "" {
		id = ids[0]
	}

	t, ok := v.TemplateByID(id)
	if !ok {
		return fmt.Errorf("unknown template %q", id)
	}

	v.SetActiveTemplate(t.ID, t.Data, 0)
	v.SetRedshift(r.flags.redshift)

	return nil
}

// crossCorrelate scans the loaded spectrum against the active template and
// returns a viewer holding the correlation curve.
func (r *renderer) crossCorrelate(v *viewer.Viewer) (*viewer.Viewer, error) {
	active := v.Templates().Active()
	if active.ID == "" {
		return nil, errNoTemplate
	}

	wavelength, _ := v.Trace("wavelength")
	intensity, _ := v.Trace("intensity")

	res, err := xcorr.Scan(
		xcorr.Series{Wavelength: wavelength, Intensity: intensity},
		xcorr.Series{Wavelength: active.Data.X, Intensity: active.Data.Y},
		xcorr.WithRange(r.flags.zMin, r.flags.zMax),
		xcorr.WithTemplateRedshift(active.Redshift),
	)
	if err != nil {
		return nil, err
	}

	r.app.logger.Info("cross-correlation", "template", active.ID, "best", res.Best, "peak", res.Peak)

	xv := viewer.New("xcorr", viewer.WithLogger(r.app.logger), viewer.WithCompiler(r.app.compiler))
	xcorr.Load(xv, res)

	if r.cmd.Flags().Changed("redshift") {
		xv.SetRedshift(r.flags.redshift)
	}

	return xv, nil
}

func (r *renderer) xcorrChart(ctx context.Context, xv *viewer.Viewer) ([]byte, error) {
	width, height := xcorrWidth, xcorrHeight
	if r.cmd.Flags().Changed("width") {
		width = r.app.cfg.Width
	}
	if r.cmd.Flags().Changed("height") {
		height = r.app.cfg.Height
	}

	var (
		chart any
		err   error
	)

	if r.flags.lite {
		chart, err = xv.BuildCrossCorrelationSpec(width, height)
	} else {
		chart, err = xv.CrossCorrelationSpec(ctx, width, height)
	}

	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(chart, "", "  ")
}

// ranges returns the visible window: explicit flags win, otherwise the
// bounds of the wavelength and intensity traces.
func (r *renderer) ranges(v *viewer.Viewer) (viewer.Range, viewer.Range) {
	var xr, yr viewer.Range

	xr.Min, _ = v.TraceMin("wavelength")
	xr.Max, _ = v.TraceMax("wavelength")
	yr.Min, _ = v.TraceMin("intensity")
	yr.Max, _ = v.TraceMax("intensity")

	fs := r.cmd.Flags()
	for _, o := range []struct {
		flag string
		dst  *float64
		val  float64
	}{
		{"xmin", &xr.Min, r.flags.xMin},
		{"xmax", &xr.Max, r.flags.xMax},
		{"ymin", &yr.Min, r.flags.yMin},
		{"ymax", &yr.Max, r.flags.yMax},
	} {
		if fs.Changed(o.flag) {
			*o.dst = o.val
		}
	}

	return xr, yr
}

func (r *renderer) write(data []byte) error {
	if r.flags.out == "" {
		_, err := r.cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}

	if err := writeFileAtomic(r.flags.out, append(data, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", r.flags.out, err)
	}

	return nil
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, so readers never see a partial chart.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func readSpectrum(path string) (*marz.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spectrum: %w", err)
	}
	defer f.Close()

	return marz.Decode(f)
}

func readTemplates(path string) ([]template.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening templates: %w", err)
	}
	defer f.Close()

	return marz.DecodeTemplates(f)
}
