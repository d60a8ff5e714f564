package marz

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cast"

	"github.com/cwbudde/ssv/viewer/template"
)

// DecodeTemplates reads a JSON array of templates. Each element carries id,
// name, wavelength and intensity; array cells are decoded as in
// [FromDictionary].
func DecodeTemplates(r io.Reader) ([]template.Template, error) {
	var list []map[string]any
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("marz: decode templates: %w", err)
	}

	out := make([]template.Template, 0, len(list))
	for i, dict := range list {
		t, err := templateFromDictionary(dict)
		if err != nil {
			return nil, fmt.Errorf("marz: template %d: %w", i, err)
		}

		out = append(out, t)
	}

	return out, nil
}

func templateFromDictionary(dict map[string]any) (template.Template, error) {
	t := template.Template{
		ID:   cast.ToString(dict["id"]),
		Name: cast.ToString(dict["name"]),
	}

	if t.ID == "" {
		return template.Template{}, fmt.Errorf("%w: missing id", ErrFormat)
	}

	for _, col := range []struct {
		key string
		dst *[]float64
	}{
		{"wavelength", &t.Data.X},
		{"intensity", &t.Data.Y},
	} {
		raw, ok := dict[col.key]
		if !ok || raw == nil {
			continue
		}

		values, err := floats(raw)
		if err != nil {
			return template.Template{}, fmt.Errorf("%w: %s: %w", ErrFormat, col.key, err)
		}

		*col.dst = values
	}

	return t, nil
}
