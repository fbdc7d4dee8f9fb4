package dataset

import (
	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/transform"
)

// Display selects how an image's display URL is produced: ByPreset or
// ByOptions. A nil Display means the untransformed source URL.
type Display interface {
	displayURL(m *Manager, id string) string
}

// ByPreset displays an image through a named preset.
type ByPreset string

func (p ByPreset) displayURL(m *Manager, id string) string {
	return m.SlideImagePreset(id, string(p))
}

// ByOptions displays an image through structured slide options.
type ByOptions transform.SlideOptions

func (o ByOptions) displayURL(m *Manager, id string) string {
	return m.SlideImage(id, transform.SlideOptions(o))
}

// DisplayFor picks the Display matching so: nil when so is empty,
// ByPreset when only a preset is named, ByOptions otherwise.
func DisplayFor(so transform.SlideOptions) Display {
	switch {
	case so.Options.IsZero() && so.Preset == "":
		return nil
	case so.Options.IsZero():
		return ByPreset(so.Preset)
	default:
		return ByOptions(so)
	}
}

// Captioned is the caption-ready view of an image.
type Captioned struct {
	ID       string                 `json:"id" yaml:"id"`
	Src      string                 `json:"src" yaml:"src"`
	Caption  string                 `json:"caption" yaml:"caption"`
	Metadata map[string]model.Value `json:"metadata" yaml:"metadata"`
}

// SlideImagePreset returns the display URL of image id under the named
// preset. The image's own transformPresets entry for name takes
// precedence over the global preset table. An unknown id logs a warning
// and returns ""; an unknown preset logs a warning and returns the source.
func (m *Manager) SlideImagePreset(id, name string) string {
	rec, ok := m.record(id)
	if !ok {
		m.logger.Warn("image not found", "id", id)
		return ""
	}
	if literal, ok := rec.TransformPresets[name]; ok {
		return transform.ApplyTransformString(rec.Src, literal)
	}
	if _, ok := transform.Preset(name); !ok {
		m.logger.Warn("unknown transform preset", "id", id, "preset", name)
		return rec.Src
	}
	return transform.ApplyPreset(rec.Src, name)
}

// SlideImage returns the display URL of image id under so. An unknown id
// logs a warning and returns "".
func (m *Manager) SlideImage(id string, so transform.SlideOptions) string {
	rec, ok := m.record(id)
	if !ok {
		m.logger.Warn("image not found", "id", id)
		return ""
	}
	if so.Preset != "" {
		if _, ok := transform.Preset(so.Preset); !ok {
			m.logger.Warn("unknown transform preset", "id", id, "preset", so.Preset)
			so.Preset = ""
		}
	}
	return transform.ApplySlideTransform(rec.Src, so)
}

// SrcSet returns the srcset value for image id, or "" when the id is
// unknown or its source is not a CDN URL.
func (m *Manager) SrcSet(id string, breakpoints ...int) string {
	rec, ok := m.record(id)
	if !ok {
		m.logger.Warn("image not found", "id", id)
		return ""
	}
	return transform.GenerateSrcSet(rec.Src, breakpoints...)
}

// ImageWithCaption returns the caption view of image id. With a nil
// Display the source URL is returned untransformed.
func (m *Manager) ImageWithCaption(id string, d Display) (Captioned, bool) {
	rec, ok := m.record(id)
	if !ok {
		return Captioned{}, false
	}
	src := rec.Src
	if d != nil {
		src = d.displayURL(m, id)
	}
	return Captioned{
		ID:       id,
		Src:      src,
		Caption:  rec.Caption,
		Metadata: rec.Clone().Metadata,
	}, true
}

// ImagesWithCaptions maps ImageWithCaption over ids, skipping unknown ids.
func (m *Manager) ImagesWithCaptions(ids []string, d Display) []Captioned {
	out := make([]Captioned, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.ImageWithCaption(id, d); ok {
			out = append(out, c)
		}
	}
	return out
}
