package vegalite

import "encoding/json"

// MarkType is the kind of graphical primitive of a layer.
type MarkType string

const (
	MarkLine  MarkType = "line"
	MarkRule  MarkType = "rule"
	MarkText  MarkType = "text"
	MarkPoint MarkType = "point"
)

// Mark is a mark definition. A mark without properties encodes as its bare
// type string.
type Mark struct {
	Type       MarkType
	Clip       *bool
	Font       string
	FontSize   float64
	FontWeight string
	Baseline   string
}

// Line returns a line mark.
func Line() Mark { return Mark{Type: MarkLine} }

// Rule returns a rule mark.
func Rule() Mark { return Mark{Type: MarkRule} }

// Point returns a point mark.
func Point() Mark { return Mark{Type: MarkPoint} }

// Text returns a text mark.
func Text() Mark { return Mark{Type: MarkText} }

// Label returns an unclipped monospace text mark sitting on its baseline.
func Label(fontSize float64) Mark {
	clip := false

	return Mark{
		Type:       MarkText,
		Clip:       &clip,
		Font:       "monospace",
		FontSize:   fontSize,
		FontWeight: "normal",
		Baseline:   "bottom",
	}
}

func (m Mark) plain() bool {
	return m.Clip == nil && m.Font == "" && m.FontSize == 0 && m.FontWeight == "" && m.Baseline == ""
}

// MarshalJSON implements [json.Marshaler].
func (m Mark) MarshalJSON() ([]byte, error) {
	if m.plain() {
		return json.Marshal(string(m.Type))
	}

	return json.Marshal(struct {
		Type       MarkType `json:"type"`
		Clip       *bool    `json:"clip,omitempty"`
		Font       string   `json:"font,omitempty"`
		FontSize   float64  `json:"fontSize,omitempty"`
		FontWeight string   `json:"fontWeight,omitempty"`
		Baseline   string   `json:"baseline,omitempty"`
	}{m.Type, m.Clip, m.Font, m.FontSize, m.FontWeight, m.Baseline})
}
