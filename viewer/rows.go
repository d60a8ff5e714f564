package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/ssv/vegalite"
)

var (
	// ErrUnknownTrace is returned when an axis is bound to a trace that
	// holds no data.
	ErrUnknownTrace = errors.New("viewer: unknown trace")

	// ErrLengthMismatch is returned when a trace is not index aligned with
	// the x-axis trace.
	ErrLengthMismatch = errors.New("viewer: trace length mismatch")
)

// PrepareRows materializes one record per index of the x-axis trace whose x
// value is numeric. Each record holds the x and y values followed by every
// other non-empty trace under its own name. A trace bound to both axes
// appears once.
//
// All non-empty traces must have the length of the x-axis trace.
func (v *Viewer) PrepareRows() ([]vegalite.Record, error) {
	xName, yName := v.overlay.XAxis().Trace, v.overlay.YAxis().Trace

	x, ok := v.traces.Get(xName)
	if !ok {
		return nil, fmt.Errorf("%w: x axis %q", ErrUnknownTrace, xName)
	}

	y, ok := v.traces.Get(yName)
	if !ok {
		return nil, fmt.Errorf("%w: y axis %q", ErrUnknownTrace, yName)
	}

	n := x.Len()
	if y.Len() != n {
		return nil, fmt.Errorf("%w: %q has %d values, %q has %d", ErrLengthMismatch, yName, y.Len(), xName, n)
	}

	var others []string
	for _, name := range v.traces.Names() {
		if name == xName || name == yName {
			continue
		}

		t, _ := v.traces.Get(name)
		if t.Len() == 0 {
			continue
		}

		if t.Len() != n {
			return nil, fmt.Errorf("%w: %q has %d values, %q has %d", ErrLengthMismatch, name, t.Len(), xName, n)
		}

		others = append(others, name)
	}

	rows := make([]vegalite.Record, 0, n)
	for i := 0; i < n; i++ {
		xv := x.Values[i]
		if math.IsNaN(xv) {
			continue
		}

		r := make(vegalite.Record, 0, 2+len(others))
		r = append(r, vegalite.Field{Name: xName, Value: xv})
		if yName != xName {
			r = append(r, vegalite.Field{Name: yName, Value: y.Values[i]})
		}

		for _, name := range others {
			t, _ := v.traces.Get(name)
			r = append(r, vegalite.Field{Name: name, Value: t.Values[i]})
		}

		rows = append(rows, r)
	}

	return rows, nil
}
