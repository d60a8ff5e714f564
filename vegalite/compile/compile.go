// Package compile lowers layered Vega-Lite specs into renderer-ready Vega
// documents.
//
// Three compilers are provided: [Builtin] lowers in-process, [Exec] wraps
// the vega-lite command line compiler and [Cached] memoizes any other
// compiler. None of them keeps custom top-level signals of the input; callers
// re-attach those on the returned [Vega] document.
package compile

import (
	"context"
	"errors"

	"github.com/cwbudde/ssv/vegalite"
)

// ErrCompile wraps failures of the underlying compiler.
var ErrCompile = errors.New("compile: compilation failed")

// Compiler turns a layered spec into a compiled document.
type Compiler interface {
	Compile(ctx context.Context, spec *vegalite.Spec) (Vega, error)
}

// Func adapts a function to [Compiler].
type Func func(ctx context.Context, spec *vegalite.Spec) (Vega, error)

// Compile calls f.
func (f Func) Compile(ctx context.Context, spec *vegalite.Spec) (Vega, error) {
	return f(ctx, spec)
}

// Vega is a compiled document as decoded JSON.
type Vega map[string]any

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Width returns the top-level width.
func (v Vega) Width() (float64, bool) { return number(v["width"]) }

// Height returns the top-level height.
func (v Vega) Height() (float64, bool) { return number(v["height"]) }

// Marks returns the top-level mark list.
func (v Vega) Marks() []any {
	marks, _ := v["marks"].([]any)
	return marks
}

// Data returns the top-level dataset list.
func (v Vega) Data() []any {
	data, _ := v["data"].([]any)
	return data
}

// Signals returns the top-level signal list.
func (v Vega) Signals() []any {
	sigs, _ := v["signals"].([]any)
	return sigs
}

// Signal returns the value of the last signal called name.
func (v Vega) Signal(name string) (any, bool) {
	sigs := v.Signals()
	for i := len(sigs) - 1; i >= 0; i-- {
		sig, ok := sigs[i].(map[string]any)
		if ok && sig["name"] == name {
			return sig["value"], true
		}
	}

	return nil, false
}

// AppendSignal adds a named signal with a constant value.
func (v Vega) AppendSignal(name string, value any) {
	v["signals"] = append(v.Signals(), map[string]any{"name": name, "value": value})
}

// ResetSignals removes all top-level signals.
func (v Vega) ResetSignals() {
	v["signals"] = []any{}
}

// Clone returns a deep copy of the document.
func (v Vega) Clone() Vega {
	if v == nil {
		return nil
	}

	out, _ := deepCopy(map[string]any(v)).(map[string]any)

	return Vega(out)
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}

		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}

		return out
	case Vega:
		return Vega(deepCopy(map[string]any(x)).(map[string]any))
	default:
		return v
	}
}
