package vegalite

import "encoding/json"

// FieldType is the measurement type of an encoded field.
type FieldType string

// TypeQuantitative is the only field type the viewer emits.
const TypeQuantitative FieldType = "quantitative"

// Encoding maps visual channels to fields or constants.
type Encoding struct {
	X          *Channel `json:"x,omitempty"`
	Y          *Channel `json:"y,omitempty"`
	Color      *Channel `json:"color,omitempty"`
	Size       *Channel `json:"size,omitempty"`
	Opacity    *Channel `json:"opacity,omitempty"`
	StrokeDash *Channel `json:"strokeDash,omitempty"`
	Shape      *Channel `json:"shape,omitempty"`
	Text       *Channel `json:"text,omitempty"`
	Tooltip    *Channel `json:"tooltip,omitempty"`
}

// Channel is one encoding channel definition.
type Channel struct {
	Field string    `json:"field,omitempty"`
	Type  FieldType `json:"type,omitempty"`
	Value any       `json:"value,omitempty"`
	Scale *Scale    `json:"scale,omitempty"`
	Axis  *Axis     `json:"axis,omitempty"`
}

// MarshalJSON writes non-finite constant values as null.
func (c Channel) MarshalJSON() ([]byte, error) {
	type plain Channel

	p := plain(c)
	if c.Value != nil {
		p.Value = jsonValue(c.Value)
	}

	return json.Marshal(p)
}

// Quantitative returns a quantitative field channel.
func Quantitative(field string) *Channel {
	return &Channel{Field: field, Type: TypeQuantitative}
}

// Nominal returns an untyped field channel, used for text labels.
func Nominal(field string) *Channel {
	return &Channel{Field: field}
}

// Value returns a constant channel.
func Value(v any) *Channel {
	return &Channel{Value: v}
}

// WithDomain sets an explicit scale domain.
func (c *Channel) WithDomain(lo, hi float64) *Channel {
	c.Scale = &Scale{Domain: []float64{lo, hi}}
	return c
}

// WithTitle attaches an axis with title.
func (c *Channel) WithTitle(title string) *Channel {
	c.Axis = &Axis{Title: title}
	return c
}

// WithoutAxis hides the axis of the channel.
func (c *Channel) WithoutAxis() *Channel {
	c.Axis = &Axis{Hidden: true}
	return c
}

// Scale overrides scale properties of a channel.
type Scale struct {
	Domain []float64 `json:"domain,omitempty"`
}

// MarshalJSON writes non-finite domain ends as null.
func (s Scale) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Domain any `json:"domain,omitempty"`
	}{jsonValue(s.Domain)})
}

// Axis configures the guide of a positional channel. A hidden axis encodes
// as null.
type Axis struct {
	Title  string
	Hidden bool
}

// MarshalJSON implements [json.Marshaler].
func (a Axis) MarshalJSON() ([]byte, error) {
	if a.Hidden {
		return []byte("null"), nil
	}

	return json.Marshal(struct {
		Title string `json:"title"`
	}{a.Title})
}
