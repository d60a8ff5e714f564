// Package marz adapts Marz spectrum dictionaries to the viewer.
//
// A Marz spectrum is a JSON object with optional wavelength, intensity,
// variance and sky arrays, the dohelio and docmb flags and a properties
// block. Decoding is lenient: array cells that are not numbers become NaN and
// absent numeric properties are zero.
package marz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cast"
)

// ErrFormat reports a dictionary entry of the wrong kind.
var ErrFormat = errors.New("marz: malformed spectrum")

// Properties describes the observed object.
type Properties struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	RA         float64 `json:"ra"`
	Dec        float64 `json:"dec"`
	Magnitude  float64 `json:"magnitude"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Altitude   float64 `json:"altitude"`
	JulianDate string  `json:"juliandate"`
	Epoch      string  `json:"epoch"`
	RADecSys   string  `json:"radecsys"`
}

// Spectrum is one decoded Marz spectrum.
type Spectrum struct {
	Wavelength []float64
	Intensity  []float64
	Variance   []float64
	Sky        []float64
	DoHelio    bool
	DoCMB      bool
	Properties Properties
}

// NewSpectrum returns an empty spectrum named name.
func NewSpectrum(name string) *Spectrum {
	return &Spectrum{Properties: Properties{Name: name}}
}

// FromDictionary decodes dict into a spectrum. Missing keys keep their
// defaults.
func FromDictionary(dict map[string]any) (*Spectrum, error) {
	s := NewSpectrum("")

	arrays := []struct {
		key string
		dst *[]float64
	}{
		{"wavelength", &s.Wavelength},
		{"intensity", &s.Intensity},
		{"variance", &s.Variance},
		{"sky", &s.Sky},
	}

	for _, a := range arrays {
		raw, ok := dict[a.key]
		if !ok || raw == nil {
			continue
		}

		values, err := floats(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormat, a.key, err)
		}

		*a.dst = values
	}

	s.DoHelio = cast.ToBool(dict["dohelio"])
	s.DoCMB = cast.ToBool(dict["docmb"])

	if raw, ok := dict["properties"]; ok && raw != nil {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: properties is %T", ErrFormat, raw)
		}

		s.Properties = properties(props)
	}

	return s, nil
}

// Decode reads one JSON spectrum from r.
func Decode(r io.Reader) (*Spectrum, error) {
	var dict map[string]any
	if err := json.NewDecoder(r).Decode(&dict); err != nil {
		return nil, fmt.Errorf("marz: decode: %w", err)
	}

	return FromDictionary(dict)
}

func floats(raw any) ([]float64, error) {
	switch v := raw.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case []any:
		out := make([]float64, len(v))
		for i, cell := range v {
			out[i] = number(cell)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("want array, got %T", raw)
	}
}

// number converts one array cell. Anything that is not a number is NaN.
func number(cell any) float64 {
	if cell == nil {
		return math.NaN()
	}

	f, err := cast.ToFloat64E(cell)
	if err != nil {
		return math.NaN()
	}

	return f
}

func properties(m map[string]any) Properties {
	return Properties{
		ID:         cast.ToString(m["id"]),
		Name:       cast.ToString(m["name"]),
		Type:       cast.ToString(m["type"]),
		RA:         cast.ToFloat64(m["ra"]),
		Dec:        cast.ToFloat64(m["dec"]),
		Magnitude:  cast.ToFloat64(m["magnitude"]),
		Longitude:  cast.ToFloat64(m["longitude"]),
		Latitude:   cast.ToFloat64(m["latitude"]),
		Altitude:   cast.ToFloat64(m["altitude"]),
		JulianDate: cast.ToString(m["juliandate"]),
		Epoch:      cast.ToString(m["epoch"]),
		RADecSys:   cast.ToString(m["radecsys"]),
	}
}

// Sink receives a decoded spectrum. [viewer.Viewer] implements it.
type Sink interface {
	SetTrace(name string, values []float64)
	SetTraceColour(name, colour string)
	SetTraceVisibility(name string, visible bool)
	SetXAxisTitle(traceName, title string)
	SetYAxisTitle(traceName, title string)
}

// Trace colours installed by [Load].
const (
	ColourIntensity = "green"
	ColourVariance  = "orange"
	ColourSky       = "lightblue"
)

// Load installs the four spectrum traces on sink, binds wavelength and
// intensity to the axes and hides the variance.
func Load(sink Sink, s *Spectrum) {
	sink.SetTrace("intensity", s.Intensity)
	sink.SetTrace("variance", s.Variance)
	sink.SetTrace("sky", s.Sky)
	sink.SetTrace("wavelength", s.Wavelength)

	sink.SetTraceColour("intensity", ColourIntensity)
	sink.SetTraceColour("variance", ColourVariance)
	sink.SetTraceColour("sky", ColourSky)
	sink.SetTraceVisibility("variance", false)

	sink.SetXAxisTitle("wavelength", "Wavelength")
	sink.SetYAxisTitle("intensity", "Intensity")
}
