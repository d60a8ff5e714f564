// Package vegalite is a typed model of the layered Vega-Lite subset emitted
// by the spectrum viewer.
//
// Specs are assembled from constructor functions, one per mark kind and
// transform kind, and serialized to the Vega-Lite JSON schema only at the
// boundary through the MarshalJSON methods:
//
//	layer := vegalite.Layer{
//		Mark: vegalite.Line(),
//		Transform: []vegalite.Transform{
//			vegalite.FilterRange("wavelength", 3700, 8900),
//		},
//		Encoding: vegalite.Encoding{
//			Y:     vegalite.Quantitative("intensity"),
//			Color: vegalite.Value("green"),
//		},
//	}
//
// Non-finite numbers never reach the encoder as NaN; they are written as
// JSON null.
package vegalite
