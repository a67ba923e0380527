package domain

import (
	"encoding/json"
	"fmt"

	apperrors "typetrack/internal/platform/errors"
	"typetrack/internal/platform/schema"
)

// Theme is a practice-site palette as six lowercase hex colors without the leading '#'.
type Theme struct {
	MainColor   string `json:"mainColor"`
	BgColor     string `json:"bgColor"`
	SubColor    string `json:"subColor"`
	SubAltColor string `json:"subAltColor"`
	TextColor   string `json:"textColor"`
	ErrorColor  string `json:"errorColor"`
}

// Default is the serika dark palette.
func Default() Theme {
	return Theme{
		MainColor:   "e2b714",
		BgColor:     "323437",
		SubColor:    "646669",
		SubAltColor: "2c2e31",
		TextColor:   "d1d0c5",
		ErrorColor:  "ca4754",
	}
}

var color = schema.String{Rules: []schema.Rule{schema.Length(6), schema.Charset(schema.Hex)}}

var Schema = schema.Object{Fields: map[string]schema.Node{
	"mainColor":   color,
	"bgColor":     color,
	"subColor":    color,
	"subAltColor": color,
	"textColor":   color,
	"errorColor":  color,
}}

func (t Theme) Validate() error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc, Schema); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

// SameAccent reports whether two themes share the colors drawn into the icon.
func (t Theme) SameAccent(other Theme) bool {
	return t.MainColor == other.MainColor && t.BgColor == other.BgColor
}

type TabTheme struct {
	TabID int
	Theme Theme
}

// Mapping holds at most one theme per tab in first-seen order. Its JSON form is a list of
// [tabId, theme] pairs.
type Mapping []TabTheme

// Set replaces the tab's theme in place or appends a new entry.
func (m Mapping) Set(tabID int, theme Theme) Mapping {
	for i := range m {
		if m[i].TabID == tabID {
			m[i].Theme = theme
			return m
		}
	}
	return append(m, TabTheme{TabID: tabID, Theme: theme})
}

func (m Mapping) Lookup(tabID int) (Theme, bool) {
	for _, entry := range m {
		if entry.TabID == tabID {
			return entry.Theme, true
		}
	}
	return Theme{}, false
}

func (m Mapping) Remove(tabID int) Mapping {
	out := m[:0]
	for _, entry := range m {
		if entry.TabID != tabID {
			out = append(out, entry)
		}
	}
	return out
}

func (m Mapping) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, 0, len(m))
	for _, entry := range m {
		pairs = append(pairs, [2]any{entry.TabID, entry.Theme})
	}
	return json.Marshal(pairs)
}

func (m *Mapping) UnmarshalJSON(raw []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return fmt.Errorf("%w: theme mapping: %v", apperrors.ErrMalformedData, err)
	}
	out := make(Mapping, 0, len(pairs))
	for i, pair := range pairs {
		var entry TabTheme
		if err := json.Unmarshal(pair[0], &entry.TabID); err != nil {
			return fmt.Errorf("%w: theme mapping[%d] tab id: %v", apperrors.ErrMalformedData, i, err)
		}
		if err := json.Unmarshal(pair[1], &entry.Theme); err != nil {
			return fmt.Errorf("%w: theme mapping[%d] theme: %v", apperrors.ErrMalformedData, i, err)
		}
		out = out.Set(entry.TabID, entry.Theme)
	}
	*m = out
	return nil
}
