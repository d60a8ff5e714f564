//go:build js && wasm

// Command wasm exposes one spectrum viewer to the browser as the global SSV
// object. Charts are returned as JSON strings ready for vega.parse.
package main

import (
	"context"
	"encoding/json"
	"strings"
	"syscall/js"

	"github.com/cwbudde/ssv/marz"
	"github.com/cwbudde/ssv/viewer"
	"github.com/cwbudde/ssv/viewer/capability"
)

var (
	view     *viewer.Viewer
	onNotify js.Value
	funcs    []js.Func
)

// jsNotifier delivers each message to the onNotify callback on a later turn
// of the JS event loop. Messages are refused while no callback is set.
func jsNotifier() capability.Notifier {
	return capability.NotifierFunc(func(msg string) bool {
		cb := onNotify
		if cb.Type() != js.TypeFunction {
			return false
		}

		var deliver js.Func
		deliver = js.FuncOf(func(js.Value, []js.Value) any {
			deliver.Release()
			cb.Invoke(msg)
			return nil
		})
		js.Global().Call("setTimeout", deliver, 0)

		return true
	})
}

func main() {
	api := js.Global().Get("Object").New()

	api.Set("init", export(func(args []js.Value) any {
		name := "ssv"
		if len(args) > 0 {
			name = args[0].String()
		}

		if view != nil {
			view.Close()
		}

		view = viewer.New(name, viewer.WithNotifier(jsNotifier()))

		return errorOrNull(view.Initialise())
	}))

	api.Set("onNotify", export(func(args []js.Value) any {
		if len(args) > 0 {
			onNotify = args[0]
		}
		return js.Null()
	}))

	api.Set("loadMarz", export(func(args []js.Value) any {
		if view == nil || len(args) < 1 {
			return js.Null()
		}

		s, err := marz.Decode(strings.NewReader(args[0].String()))
		if err != nil {
			return err.Error()
		}

		marz.Load(view, s)
		return js.Null()
	}))

	api.Set("setTemplates", export(func(args []js.Value) any {
		if view == nil || len(args) < 1 {
			return js.Null()
		}

		list, err := marz.DecodeTemplates(strings.NewReader(args[0].String()))
		if err != nil {
			return err.Error()
		}

		view.SetTemplates(list)
		return js.Null()
	}))

	api.Set("setActiveTemplate", export(func(args []js.Value) any {
		if view == nil || len(args) < 1 {
			return js.Null()
		}

		t, ok := view.TemplateByID(args[0].String())
		if !ok {
			return "unknown template " + args[0].String()
		}

		z := 0.0
		if len(args) > 1 {
			z = args[1].Float()
		}

		view.SetActiveTemplate(t.ID, t.Data, z)
		return js.Null()
	}))

	api.Set("setTrace", export(func(args []js.Value) any {
		if view == nil || len(args) < 2 {
			return js.Null()
		}
		view.SetTrace(args[0].String(), floats(args[1]))
		return js.Null()
	}))

	api.Set("setTraceColour", export(func(args []js.Value) any {
		if view == nil || len(args) < 2 {
			return js.Null()
		}
		view.SetTraceColour(args[0].String(), args[1].String())
		return js.Null()
	}))

	api.Set("setTraceVisibility", export(func(args []js.Value) any {
		if view == nil || len(args) < 2 {
			return js.Null()
		}
		view.SetTraceVisibility(args[0].String(), args[1].Bool())
		return js.Null()
	}))

	api.Set("setTraceOffsets", export(func(args []js.Value) any {
		if view == nil || len(args) < 3 {
			return js.Null()
		}
		view.SetTraceXOffset(args[0].String(), args[1].Float())
		view.SetTraceYOffset(args[0].String(), args[2].Float())
		return js.Null()
	}))

	api.Set("setAxisTitles", export(func(args []js.Value) any {
		if view == nil || len(args) < 4 {
			return js.Null()
		}
		view.SetXAxisTitle(args[0].String(), args[1].String())
		view.SetYAxisTitle(args[2].String(), args[3].String())
		return js.Null()
	}))

	api.Set("setRedshift", export(func(args []js.Value) any {
		if view == nil || len(args) < 1 {
			return js.Null()
		}
		view.SetRedshift(args[0].Float())
		return js.Null()
	}))

	api.Set("setSmoothHalfWidth", export(func(args []js.Value) any {
		if view == nil || len(args) < 1 {
			return js.Null()
		}
		view.SetSmoothHalfWidth(args[0].Int())
		return js.Null()
	}))

	api.Set("dropPin", export(func(args []js.Value) any {
		if view == nil || len(args) < 3 {
			return js.Null()
		}
		return errorOrNull(view.DropPin("pin", args[0].Float(), args[1].Float(), args[2].String()))
	}))

	api.Set("setVRule", export(func(args []js.Value) any {
		if view == nil || len(args) < 2 {
			return js.Null()
		}
		view.SetVRule(args[0].String(), args[1].Float())
		return js.Null()
	}))

	// mainSpec(width, height, xmin, xmax, ymin, ymax, axisLabels, secondary)
	api.Set("mainSpec", export(func(args []js.Value) any {
		if view == nil || len(args) < 6 {
			return js.Null()
		}

		opts := viewer.DefaultMainOptions()
		if len(args) > 6 {
			opts.AxisLabels = args[6].Bool()
		}
		if len(args) > 7 {
			opts.SecondaryTraces = args[7].Bool()
		}

		out, err := view.MainSpec(context.Background(), args[0].Int(), args[1].Int(),
			viewer.Range{Min: args[2].Float(), Max: args[3].Float()},
			viewer.Range{Min: args[4].Float(), Max: args[5].Float()}, opts)

		return jsonOrError(out, err)
	}))

	// calloutSpec(width, height, xmin, xmax, secondary)
	api.Set("calloutSpec", export(func(args []js.Value) any {
		if view == nil || len(args) < 4 {
			return js.Null()
		}

		opts := viewer.DefaultCalloutOptions()
		if len(args) > 4 {
			opts.SecondaryTraces = args[4].Bool()
		}

		out, err := view.CalloutSpec(context.Background(), args[0].Int(), args[1].Int(),
			viewer.Range{Min: args[2].Float(), Max: args[3].Float()}, opts)

		return jsonOrError(out, err)
	}))

	// xcorrSpec(width, height)
	api.Set("xcorrSpec", export(func(args []js.Value) any {
		if view == nil || len(args) < 2 {
			return js.Null()
		}

		out, err := view.CrossCorrelationSpec(context.Background(), args[0].Int(), args[1].Int())

		return jsonOrError(out, err)
	}))

	js.Global().Set("SSV", api)
	select {}
}

func floats(v js.Value) []float64 {
	out := make([]float64, v.Length())
	for i := range out {
		out[i] = v.Index(i).Float()
	}
	return out
}

func errorOrNull(err error) any {
	if err != nil {
		return err.Error()
	}
	return js.Null()
}

// jsonOrError returns the chart as a JSON string, or an object carrying the
// error message.
func jsonOrError(v any, err error) any {
	if err == nil {
		var data []byte
		data, err = json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}

	obj := js.Global().Get("Object").New()
	obj.Set("error", err.Error())
	return obj
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
