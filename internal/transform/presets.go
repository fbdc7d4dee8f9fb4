package transform

import (
	"log/slog"
	"maps"
	"slices"
)

// Preset names. The dimensions below are relied on by slide templates and
// must not change.
const (
	PresetThumbnail  = "thumbnail"
	PresetHero       = "hero"
	PresetFullscreen = "fullscreen"
	PresetMedium     = "medium"
)

var presets = map[string]Options{
	PresetThumbnail:  {Width: 300, Height: 200, Crop: CropFill, Quality: QualityAuto, Format: FormatAuto},
	PresetHero:       {Width: 1200, Height: 600, Crop: CropFill, Quality: QualityAuto, Format: FormatAuto},
	PresetFullscreen: {Width: 1920, Height: 1080, Crop: CropFit, Quality: QualityAuto, Format: FormatAuto},
	PresetMedium:     {Width: 800, Height: 600, Crop: CropFit, Quality: QualityAuto, Format: FormatAuto},
}

// Preset returns the options of a named preset.
func Preset(name string) (Options, bool) {
	o, ok := presets[name]
	return o, ok
}

// Presets returns a copy of the preset table.
func Presets() map[string]Options {
	return maps.Clone(presets)
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}

// ApplyPreset applies a named preset to rawURL. An unknown name is logged
// and rawURL is returned unchanged.
func ApplyPreset(rawURL, name string) string {
	o, ok := Preset(name)
	if !ok {
		slog.Warn("unknown transform preset", "preset", name)
		return rawURL
	}
	return ApplyTransform(rawURL, o)
}

// ApplySlideTransform applies so to rawURL. When so names a preset, the
// preset's options are used as defaults under the explicit ones.
func ApplySlideTransform(rawURL string, so SlideOptions) string {
	o := so.Options
	if so.Preset != "" {
		if p, ok := Preset(so.Preset); ok {
			o = Merge(p, so.Options)
		} else {
			slog.Warn("unknown transform preset", "preset", so.Preset)
		}
	}
	return ApplyTransform(rawURL, o)
}
