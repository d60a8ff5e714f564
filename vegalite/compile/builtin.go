package compile

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/ssv/vegalite"
)

// VegaSchemaURL is the schema of documents produced by [Builtin].
const VegaSchemaURL = "https://vega.github.io/schema/vega/v5.json"

// Builtin lowers the viewer's Vega-Lite subset to Vega without leaving the
// process. Every layer gets a derived dataset holding its transforms, x and
// y share one linear scale each, and interval selections become signal
// pairs.
type Builtin struct{}

var _ Compiler = Builtin{}

// Compile implements [Compiler].
func (Builtin) Compile(_ context.Context, spec *vegalite.Spec) (Vega, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	width, height := spec.Size()
	out := Vega{
		"$schema": VegaSchemaURL,
		"width":   width,
		"height":  height,
		"padding": 5,
	}

	root := "spectrum"
	if spec.Data != nil && spec.Data.Name != "" {
		root = spec.Data.Name
	}

	var data []any
	if spec.Data != nil {
		ds := map[string]any{"name": root, "values": spec.Data.Values}
		if tr, err := lowerTransforms(spec.Transform); err != nil {
			return nil, err
		} else if len(tr) > 0 {
			ds["transform"] = tr
		}

		data = append(data, ds)
	}

	sc := newScaleCollector()
	signals := []any{}
	marks := make([]any, 0, len(spec.Layer))

	for i, layer := range spec.Layer {
		name := "data_" + strconv.Itoa(i)

		ds := map[string]any{"name": name}
		if layer.Data != nil {
			ds["values"] = layer.Data.Values
		} else {
			ds["source"] = root
		}

		tr, err := lowerTransforms(layer.Transform)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}

		if len(tr) > 0 {
			ds["transform"] = tr
		}

		data = append(data, ds)

		enc := layer.Encoding
		if enc.X == nil && spec.Encoding != nil {
			enc.X = spec.Encoding.X
		}

		sc.observe(name, enc)
		marks = append(marks, lowerMark(i, name, layer, enc))

		for sel := range layer.Selection {
			signals = append(signals,
				map[string]any{"name": sel + "_x", "value": []any{}},
				map[string]any{"name": sel + "_y", "value": []any{}},
			)
		}
	}

	out["data"] = data
	out["signals"] = signals
	out["marks"] = marks
	out["scales"] = sc.scales()
	out["axes"] = sc.axes()

	return out, nil
}

func lowerTransforms(ts []vegalite.Transform) ([]any, error) {
	out := make([]any, 0, len(ts))
	for _, t := range ts {
		switch t.Kind {
		case vegalite.KindFilter:
			out = append(out, map[string]any{"type": "filter", "expr": rangeExpr(t.Field, t.Range)})
		case vegalite.KindCalculate:
			out = append(out, map[string]any{"type": "formula", "expr": t.Expr, "as": t.As})
		case vegalite.KindWindow:
			ops := make([]any, len(t.Ops))
			fields := make([]any, len(t.Ops))
			as := make([]any, len(t.Ops))
			for i, op := range t.Ops {
				ops[i], fields[i], as[i] = op.Op, op.Field, op.As
			}

			out = append(out, map[string]any{
				"type":   "window",
				"ops":    ops,
				"fields": fields,
				"as":     as,
				"frame":  []any{t.Frame[0], t.Frame[1]},
			})
		default:
			return nil, fmt.Errorf("%w: unknown transform kind %d", vegalite.ErrMalformed, t.Kind)
		}
	}

	return out, nil
}

func rangeExpr(field string, r [2]float64) string {
	d := vegalite.Datum(field)

	var lo, hi string
	if !math.IsNaN(r[0]) && !math.IsInf(r[0], 0) {
		lo = d + " >= " + vegalite.FormatNumber(r[0])
	}

	if !math.IsNaN(r[1]) && !math.IsInf(r[1], 0) {
		hi = d + " <= " + vegalite.FormatNumber(r[1])
	}

	switch {
	case lo != "" && hi != "":
		return lo + " && " + hi
	case lo != "":
		return lo
	case hi != "":
		return hi
	default:
		return "true"
	}
}

var vegaMarkType = map[vegalite.MarkType]string{
	vegalite.MarkLine:  "line",
	vegalite.MarkRule:  "rule",
	vegalite.MarkText:  "text",
	vegalite.MarkPoint: "symbol",
}

func lowerMark(i int, dataName string, layer vegalite.Layer, enc vegalite.Encoding) map[string]any {
	name := layer.Name
	if name == "" {
		name = "layer_" + strconv.Itoa(i) + "_marks"
	}

	update := map[string]any{}
	position := func(key, scale string, c *vegalite.Channel) {
		switch {
		case c == nil:
		case c.Field != "":
			update[key] = map[string]any{"scale": scale, "field": c.Field}
		case c.Value != nil:
			update[key] = map[string]any{"value": c.Value}
		}
	}
	constant := func(key string, c *vegalite.Channel) {
		switch {
		case c == nil:
		case c.Field != "":
			update[key] = map[string]any{"field": c.Field}
		case c.Value != nil:
			update[key] = map[string]any{"value": c.Value}
		}
	}

	position("x", "x", enc.X)
	position("y", "y", enc.Y)

	colour := "stroke"
	size := "strokeWidth"
	switch layer.Mark.Type {
	case vegalite.MarkText:
		colour = "fill"
		size = "fontSize"
	case vegalite.MarkPoint:
		size = "size"
	case vegalite.MarkRule:
		if enc.Y == nil {
			update["y"] = map[string]any{"value": 0}
			update["y2"] = map[string]any{"signal": "height"}
		}
	}

	constant(colour, enc.Color)
	constant(size, enc.Size)
	constant("opacity", enc.Opacity)
	constant("strokeDash", enc.StrokeDash)
	constant("shape", enc.Shape)
	constant("text", enc.Text)

	if enc.Tooltip != nil && enc.Tooltip.Field != "" {
		update["tooltip"] = map[string]any{"signal": vegalite.Datum(enc.Tooltip.Field)}
	}

	m := layer.Mark
	if m.Font != "" {
		update["font"] = map[string]any{"value": m.Font}
	}

	if m.FontSize != 0 {
		update["fontSize"] = map[string]any{"value": m.FontSize}
	}

	if m.FontWeight != "" {
		update["fontWeight"] = map[string]any{"value": m.FontWeight}
	}

	if m.Baseline != "" {
		update["baseline"] = map[string]any{"value": m.Baseline}
	}

	out := map[string]any{
		"name":   name,
		"type":   vegaMarkType[m.Type],
		"from":   map[string]any{"data": dataName},
		"encode": map[string]any{"update": update},
	}

	if m.Clip != nil {
		out["clip"] = *m.Clip
	} else {
		out["clip"] = true
	}

	return out
}

// scaleCollector accumulates the shared x and y scale definitions.
type scaleCollector struct {
	fields  map[string][]any
	domain  map[string][]float64
	title   map[string]string
	hidden  map[string]bool
	hasAxis map[string]bool
}

func newScaleCollector() *scaleCollector {
	return &scaleCollector{
		fields:  map[string][]any{},
		domain:  map[string][]float64{},
		title:   map[string]string{},
		hidden:  map[string]bool{},
		hasAxis: map[string]bool{},
	}
}

func (s *scaleCollector) observe(dataName string, enc vegalite.Encoding) {
	s.channel("x", dataName, enc.X)
	s.channel("y", dataName, enc.Y)
}

func (s *scaleCollector) channel(scale, dataName string, c *vegalite.Channel) {
	if c == nil || c.Field == "" {
		return
	}

	s.fields[scale] = append(s.fields[scale], map[string]any{"data": dataName, "field": c.Field})

	if c.Scale != nil && len(c.Scale.Domain) == 2 && s.domain[scale] == nil {
		s.domain[scale] = c.Scale.Domain
	}

	if c.Axis != nil && !s.hasAxis[scale] {
		s.hasAxis[scale] = true
		s.hidden[scale] = c.Axis.Hidden
		s.title[scale] = c.Axis.Title
	}
}

func (s *scaleCollector) scales() []any {
	out := make([]any, 0, 2)
	for _, scale := range []string{"x", "y"} {
		def := map[string]any{
			"name":  scale,
			"type":  "linear",
			"zero":  false,
			"range": map[string]string{"x": "width", "y": "height"}[scale],
		}

		switch {
		case s.domain[scale] != nil:
			d := s.domain[scale]
			def["domain"] = []any{finiteOrNil(d[0]), finiteOrNil(d[1])}
		case len(s.fields[scale]) > 0:
			def["domain"] = map[string]any{"fields": s.fields[scale]}
			def["nice"] = true
		default:
			def["domain"] = []any{0, 1}
		}

		out = append(out, def)
	}

	return out
}

func (s *scaleCollector) axes() []any {
	out := make([]any, 0, 2)
	for _, scale := range []string{"x", "y"} {
		if s.hidden[scale] {
			continue
		}

		axis := map[string]any{
			"scale":  scale,
			"orient": map[string]string{"x": "bottom", "y": "left"}[scale],
		}

		if s.title[scale] != "" {
			axis["title"] = s.title[scale]
		}

		out = append(out, axis)
	}

	return out
}

func finiteOrNil(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return v
}
