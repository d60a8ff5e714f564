package vegalite

import (
	"encoding/json"
	"fmt"
)

// TransformKind tags the variant held by a [Transform].
type TransformKind int

const (
	KindFilter TransformKind = iota + 1
	KindCalculate
	KindWindow
)

// WindowOp is one aggregate of a window transform.
type WindowOp struct {
	Op    string `json:"op"`
	Field string `json:"field"`
	As    string `json:"as"`
}

// Transform is a data transform. Only the fields of its Kind are used.
type Transform struct {
	Kind TransformKind

	// filter
	Field string
	Range [2]float64

	// calculate
	Expr string
	As   string

	// window
	Ops   []WindowOp
	Frame [2]int
}

// FilterRange keeps data whose field lies in [lo, hi].
func FilterRange(field string, lo, hi float64) Transform {
	return Transform{Kind: KindFilter, Field: field, Range: [2]float64{lo, hi}}
}

// Calculate derives field as from expr.
func Calculate(expr, as string) Transform {
	return Transform{Kind: KindCalculate, Expr: expr, As: as}
}

// MovingMean smooths field with a centered mean over [-halfWidth, halfWidth]
// and stores the result as as.
func MovingMean(field, as string, halfWidth int) Transform {
	if halfWidth < 0 {
		halfWidth = -halfWidth
	}

	return Transform{
		Kind:  KindWindow,
		Ops:   []WindowOp{{Op: "mean", Field: field, As: as}},
		Frame: [2]int{-halfWidth, halfWidth},
	}
}

// MarshalJSON implements [json.Marshaler].
func (t Transform) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindFilter:
		return json.Marshal(map[string]any{
			"filter": map[string]any{
				"field": t.Field,
				"range": jsonValue(t.Range[:]),
			},
		})
	case KindCalculate:
		return json.Marshal(struct {
			Calculate string `json:"calculate"`
			As        string `json:"as"`
		}{t.Expr, t.As})
	case KindWindow:
		return json.Marshal(struct {
			Window []WindowOp `json:"window"`
			Frame  [2]int     `json:"frame"`
		}{t.Ops, t.Frame})
	default:
		return nil, fmt.Errorf("%w: unknown transform kind %d", ErrMalformed, t.Kind)
	}
}
