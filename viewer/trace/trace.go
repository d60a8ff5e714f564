package trace

import (
	"log/slog"
	"math"
	"slices"
)

// DefaultColour is the colour assigned to a trace by [Store.Set].
const DefaultColour = "black"

// Trace is one named series with its derived bounds and display state.
type Trace struct {
	Name    string
	Values  []float64
	Visible bool
	Colour  string
	XOffset float64
	YOffset float64

	min, max         float64
	minClip, maxClip float64
	hasRange         bool
	hasMinClip       bool
	hasMaxClip       bool

	// hasData is false for records created only by display setters.
	hasData bool
}

// Range reports the true extrema over the finite values.
func (t *Trace) Range() (lo, hi float64, ok bool) {
	return t.min, t.max, t.hasRange
}

// Len returns the number of values, NaN entries included.
func (t *Trace) Len() int { return len(t.Values) }

// At returns the value at index i, or NaN when i is out of range.
func (t *Trace) At(i int) float64 {
	if i < 0 || i >= len(t.Values) {
		return math.NaN()
	}

	return t.Values[i]
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger receiving bound diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store owns the traces of one spectrum keyed by name.
type Store struct {
	traces map[string]*Trace
	order  []string
	log    *slog.Logger
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		traces: make(map[string]*Trace),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// record returns the record for name, creating an empty one if needed.
func (s *Store) record(name string) *Trace {
	if t, ok := s.traces[name]; ok {
		return t
	}

	t := &Trace{Name: name, Visible: true, Colour: DefaultColour}
	s.traces[name] = t
	s.order = append(s.order, name)

	return t
}

// Set replaces the named trace with a copy of values and resets its display
// state.
//
// The bounds and clip bounds are set to the extrema of the finite values.
// When values holds no finite number the bounds stay unset.
func (s *Store) Set(name string, values []float64) {
	t := s.record(name)
	*t = Trace{
		Name:    name,
		Values:  slices.Clone(values),
		Visible: true,
		Colour:  DefaultColour,
		hasData: true,
	}

	if len(values) == 0 {
		return
	}

	lo, hi, ok := scanRange(values)
	if !ok {
		s.log.Debug("trace has no finite values", "trace", name, "len", len(values))
		return
	}

	t.min, t.max = lo, hi
	t.minClip, t.maxClip = lo, hi
	t.hasRange, t.hasMinClip, t.hasMaxClip = true, true, true

	s.log.Debug("trace bounds", "trace", name, "min", lo, "max", hi)
}

// scanRange returns min and max over the non-NaN entries.
func scanRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if v > hi {
			hi = v
		}

		if v < lo {
			lo = v
		}

		ok = true
	}

	return lo, hi, ok
}

// Get returns the named trace. Placeholders created by display setters
// without data are not reported.
func (s *Store) Get(name string) (*Trace, bool) {
	t, ok := s.traces[name]
	if !ok || !t.hasData {
		return nil, false
	}

	return t, true
}

// Values returns the data of the named trace.
func (s *Store) Values(name string) ([]float64, bool) {
	t, ok := s.Get(name)
	if !ok {
		return nil, false
	}

	return t.Values, true
}

// Names returns the names of all traces holding data, in insertion order.
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if s.traces[name].hasData {
			out = append(out, name)
		}
	}

	return out
}

// Min returns the smallest finite value of the named trace.
func (s *Store) Min(name string) (float64, bool) {
	t, ok := s.Get(name)
	if !ok || !t.hasRange {
		return 0, false
	}

	return t.min, true
}

// Max returns the largest finite value of the named trace.
func (s *Store) Max(name string) (float64, bool) {
	t, ok := s.Get(name)
	if !ok || !t.hasRange {
		return 0, false
	}

	return t.max, true
}

// MinClip returns the lower view bound of the named trace.
func (s *Store) MinClip(name string) (float64, bool) {
	t, ok := s.traces[name]
	if !ok || !t.hasMinClip {
		return 0, false
	}

	return t.minClip, true
}

// MaxClip returns the upper view bound of the named trace.
func (s *Store) MaxClip(name string) (float64, bool) {
	t, ok := s.traces[name]
	if !ok || !t.hasMaxClip {
		return 0, false
	}

	return t.maxClip, true
}

// SetMinClip overwrites the lower view bound. The value is not checked
// against the data extrema so callers can pad the view.
func (s *Store) SetMinClip(name string, v float64) {
	t := s.record(name)
	t.minClip, t.hasMinClip = v, true
	s.log.Debug("trace min clip", "trace", name, "min_clip", v)
}

// SetMaxClip overwrites the upper view bound.
func (s *Store) SetMaxClip(name string, v float64) {
	t := s.record(name)
	t.maxClip, t.hasMaxClip = v, true
	s.log.Debug("trace max clip", "trace", name, "max_clip", v)
}

// Visible reports the visibility flag of the named trace.
func (s *Store) Visible(name string) (visible, ok bool) {
	t, ok := s.traces[name]
	if !ok {
		return false, false
	}

	return t.Visible, true
}

// SetVisibility sets the visibility flag.
func (s *Store) SetVisibility(name string, visible bool) {
	s.record(name).Visible = visible
}

// SetXOffset sets the additive x offset applied when the trace is drawn.
func (s *Store) SetXOffset(name string, off float64) {
	s.record(name).XOffset = off
}

// SetYOffset sets the additive y offset applied when the trace is drawn.
func (s *Store) SetYOffset(name string, off float64) {
	s.record(name).YOffset = off
}

// SetColour sets the draw colour.
func (s *Store) SetColour(name, colour string) {
	s.record(name).Colour = colour
}
