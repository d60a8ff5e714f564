package vegalite

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaURL is the Vega-Lite schema version the viewer targets.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v4.8.1.json"

// ErrMalformed reports a spec that cannot be compiled.
var ErrMalformed = errors.New("vegalite: malformed spec")

// Spec is a top-level layered description.
type Spec struct {
	Schema    string      `json:"$schema"`
	Config    *Config     `json:"config,omitempty"`
	Data      *Data       `json:"data,omitempty"`
	Encoding  *Encoding   `json:"encoding,omitempty"`
	Transform []Transform `json:"transform,omitempty"`
	Signals   []Signal    `json:"signals,omitempty"`
	Layer     []Layer     `json:"layer"`
}

// New returns an empty layered spec sized width by height pixels.
func New(width, height int) *Spec {
	return &Spec{
		Schema: SchemaURL,
		Config: &Config{View: ViewConfig{ContinuousWidth: width, ContinuousHeight: height}},
		Layer:  []Layer{},
	}
}

// Size returns the view size from the config block.
func (s *Spec) Size() (width, height int) {
	if s.Config == nil {
		return 0, 0
	}

	return s.Config.View.ContinuousWidth, s.Config.View.ContinuousHeight
}

// Add appends layers.
func (s *Spec) Add(layers ...Layer) {
	s.Layer = append(s.Layer, layers...)
}

// Signal returns the declared signal with the given name.
func (s *Spec) Signal(name string) (Signal, bool) {
	for _, sig := range s.Signals {
		if sig.Name == name {
			return sig, true
		}
	}

	return Signal{}, false
}

// Validate checks the structural invariants the compilers rely on.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", ErrMalformed)
	}

	if len(s.Layer) == 0 {
		return fmt.Errorf("%w: no layers", ErrMalformed)
	}

	for i, l := range s.Layer {
		if l.Mark.Type == "" {
			return fmt.Errorf("%w: layer %d has no mark", ErrMalformed, i)
		}

		if l.Data == nil && s.Data == nil {
			return fmt.Errorf("%w: layer %d has no data", ErrMalformed, i)
		}
	}

	return nil
}

// Config holds the view configuration block.
type Config struct {
	View ViewConfig `json:"view"`
}

// ViewConfig sizes continuous views.
type ViewConfig struct {
	ContinuousHeight int `json:"continuousHeight"`
	ContinuousWidth  int `json:"continuousWidth"`
}

// Data is an inline dataset.
type Data struct {
	Name   string   `json:"name,omitempty"`
	Values []Record `json:"values"`
}

// Signal is a named value referenced from expressions.
type Signal struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// MarshalJSON writes non-finite values as null.
func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}{s.Name, jsonValue(s.Value)})
}

// Layer is one visual layer.
type Layer struct {
	Name      string               `json:"name,omitempty"`
	Data      *Data                `json:"data,omitempty"`
	Mark      Mark                 `json:"mark"`
	Transform []Transform          `json:"transform,omitempty"`
	Encoding  Encoding             `json:"encoding"`
	Selection map[string]Selection `json:"selection,omitempty"`
}

// Selection is an interactive selection definition.
type Selection struct {
	Type string `json:"type"`
	Bind string `json:"bind,omitempty"`
}

// PanZoom returns an interval selection bound to the scales.
func PanZoom() Selection {
	return Selection{Type: "interval", Bind: "scales"}
}
