package model

import (
	"encoding/json"
	"maps"
)

// Recognized image metadata keys. Other keys are kept as-is.
const (
	MetaArtist     = "artist"
	MetaYear       = "year"
	MetaMedium     = "medium"
	MetaDimensions = "dimensions"
	MetaCollection = "collection"
)

// ImageRecord is one catalog entry.
type ImageRecord struct {
	Src      string           `json:"src" yaml:"src"`
	Caption  string           `json:"caption" yaml:"caption"`
	Metadata map[string]Value `json:"metadata" yaml:"metadata"`
	Tags     []string         `json:"tags" yaml:"tags"`

	// TransformPresets maps a preset name to a literal transform string
	// for this image only. It is consulted before the global presets.
	TransformPresets map[string]string `json:"transformPresets" yaml:"transformPresets"`
}

// Meta returns the metadata value for key as text, or "" if absent.
func (r ImageRecord) Meta(key string) string {
	v, ok := r.Metadata[key]
	if !ok {
		return ""
	}
	return v.String()
}

// HasTag reports whether tag is one of the record's tags.
func (r ImageRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Normalize replaces nil maps and slices with empty ones.
func (r *ImageRecord) Normalize() {
	if r.Metadata == nil {
		r.Metadata = map[string]Value{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.TransformPresets == nil {
		r.TransformPresets = map[string]string{}
	}
}

// Clone returns a deep copy of r.
func (r ImageRecord) Clone() ImageRecord {
	out := ImageRecord{
		Src:              r.Src,
		Caption:          r.Caption,
		Metadata:         make(map[string]Value, len(r.Metadata)),
		Tags:             make([]string, len(r.Tags)),
		TransformPresets: maps.Clone(r.TransformPresets),
	}
	for k, v := range r.Metadata {
		out.Metadata[k] = v.clone()
	}
	copy(out.Tags, r.Tags)
	if out.TransformPresets == nil {
		out.TransformPresets = map[string]string{}
	}
	return out
}

// UnmarshalJSON decodes leniently: fields of the wrong JSON type fall back
// to their neutral defaults instead of failing.
func (r *ImageRecord) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = SanitizeImageRecord(raw)
	return nil
}

// SanitizeImageRecord builds an ImageRecord from a decoded JSON value.
// Every field is type-checked; anything of the wrong shape becomes the
// field's neutral default, so the result never has nil maps or slices.
// Typed ImageRecord input is cloned and normalized.
func SanitizeImageRecord(raw any) ImageRecord {
	switch r := raw.(type) {
	case ImageRecord:
		out := r.Clone()
		out.Normalize()
		return out
	case *ImageRecord:
		if r == nil {
			break
		}
		out := r.Clone()
		out.Normalize()
		return out
	}

	obj, _ := raw.(map[string]any)
	rec := ImageRecord{
		Src:              stringField(obj, "src"),
		Caption:          stringField(obj, "caption"),
		Metadata:         sanitizeMetadata(obj["metadata"]),
		Tags:             sanitizeStrings(obj["tags"]),
		TransformPresets: sanitizePresets(obj["transformPresets"]),
	}
	return rec
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func sanitizeMetadata(raw any) map[string]Value {
	out := map[string]Value{}
	switch m := raw.(type) {
	case map[string]any:
		for k, v := range m {
			if val, ok := valueOf(v); ok {
				out[k] = val
			}
		}
	case map[string]Value:
		for k, v := range m {
			out[k] = v.clone()
		}
	case map[string]string:
		for k, v := range m {
			out[k] = StringValue(v)
		}
	}
	return out
}

// sanitizeStrings keeps the string elements of a list in order,
// duplicates included.
func sanitizeStrings(raw any) []string {
	out := []string{}
	switch list := raw.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

func sanitizePresets(raw any) map[string]string {
	out := map[string]string{}
	switch m := raw.(type) {
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
