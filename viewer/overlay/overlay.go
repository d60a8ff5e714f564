// Package overlay holds the chart decorations that are not traces: the pick
// pin, named vertical rules and the axis bindings.
package overlay

// Axis binds a chart axis to a trace and a display title.
type Axis struct {
	Trace string
	Title string
}

// Pin is a picked point in trace-data units.
type Pin struct {
	Name string
	X, Y float64
}

// VRule is a named vertical rule position.
type VRule struct {
	Name string
	X    float64
}

// State owns the overlay decorations of one viewer.
type State struct {
	xAxis, yAxis Axis

	pin    Pin
	hasPin bool

	vrules map[string]int
	rules  []VRule
}

// New returns a State with the axes bound to traces "x" and "y".
func New() *State {
	return &State{
		xAxis:  Axis{Trace: "x", Title: "x"},
		yAxis:  Axis{Trace: "y", Title: "y"},
		vrules: make(map[string]int),
	}
}

// XAxis returns the x-axis binding.
func (s *State) XAxis() Axis { return s.xAxis }

// YAxis returns the y-axis binding.
func (s *State) YAxis() Axis { return s.yAxis }

// SetXAxisTitle binds the x axis to the named trace with a title.
func (s *State) SetXAxisTitle(traceName, title string) {
	s.xAxis = Axis{Trace: traceName, Title: title}
}

// SetYAxisTitle binds the y axis to the named trace with a title.
func (s *State) SetYAxisTitle(traceName, title string) {
	s.yAxis = Axis{Trace: traceName, Title: title}
}

// AddPin sets the single pick point, replacing any previous one.
func (s *State) AddPin(name string, x, y float64) {
	s.pin = Pin{Name: name, X: x, Y: y}
	s.hasPin = true
}

// Pin returns the pick point if one is set.
func (s *State) Pin() (Pin, bool) {
	return s.pin, s.hasPin
}

// ClearPin removes the pick point.
func (s *State) ClearPin() {
	s.pin = Pin{}
	s.hasPin = false
}

// SetVRule sets the x position of the named vertical rule. Positions are
// pre-redshift.
func (s *State) SetVRule(name string, x float64) {
	if i, ok := s.vrules[name]; ok {
		s.rules[i].X = x
		return
	}

	s.vrules[name] = len(s.rules)
	s.rules = append(s.rules, VRule{Name: name, X: x})
}

// VRule returns the position of the named rule.
func (s *State) VRule(name string) (float64, bool) {
	i, ok := s.vrules[name]
	if !ok {
		return 0, false
	}

	return s.rules[i].X, true
}

// VRules returns all rules in the order they were first set.
func (s *State) VRules() []VRule {
	return append([]VRule(nil), s.rules...)
}
