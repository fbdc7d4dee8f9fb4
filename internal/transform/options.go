package transform

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Crop is the resize mode of a transform.
type Crop string

const (
	CropScale Crop = "scale"
	CropFill  Crop = "fill"
	CropFit   Crop = "fit"
	CropCrop  Crop = "crop"
)

// Quality is either "auto" or a numeric level; build levels with QualityLevel.
type Quality string

const QualityAuto Quality = "auto"

// QualityLevel returns a numeric quality.
func QualityLevel(n int) Quality {
	return Quality(strconv.Itoa(n))
}

// Format is the delivered file format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatWebP Format = "webp"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
)

// Gravity picks the focal point used when cropping.
type Gravity string

const (
	GravityAuto   Gravity = "auto"
	GravityFace   Gravity = "face"
	GravityCenter Gravity = "center"
	GravityNorth  Gravity = "north"
	GravitySouth  Gravity = "south"
	GravityEast   Gravity = "east"
	GravityWest   Gravity = "west"
)

var validCrops = map[Crop]bool{
	CropScale: true,
	CropFill:  true,
	CropFit:   true,
	CropCrop:  true,
}

var validFormats = map[Format]bool{
	FormatAuto: true,
	FormatWebP: true,
	FormatJPG:  true,
	FormatPNG:  true,
}

var validGravities = map[Gravity]bool{
	GravityAuto:   true,
	GravityFace:   true,
	GravityCenter: true,
	GravityNorth:  true,
	GravitySouth:  true,
	GravityEast:   true,
	GravityWest:   true,
}

// Options is a structured transform request. A zero field is absent and
// contributes nothing to the transform string.
type Options struct {
	Width   int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height  int     `json:"height,omitempty" yaml:"height,omitempty"`
	Crop    Crop    `json:"crop,omitempty" yaml:"crop,omitempty"`
	Quality Quality `json:"quality,omitempty" yaml:"quality,omitempty"`
	Format  Format  `json:"format,omitempty" yaml:"format,omitempty"`
	Gravity Gravity `json:"gravity,omitempty" yaml:"gravity,omitempty"`
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return o == Options{}
}

// Validate checks every present option against the accepted vocabulary.
// The transform functions never call it; it guards user input.
func (o Options) Validate() error {
	if o.Width < 0 {
		return fmt.Errorf("invalid width %d: must be positive", o.Width)
	}
	if o.Height < 0 {
		return fmt.Errorf("invalid height %d: must be positive", o.Height)
	}
	if o.Crop != "" && !validCrops[o.Crop] {
		return fmt.Errorf("invalid crop mode %q: must be one of scale, fill, fit, crop", o.Crop)
	}
	if o.Quality != "" && o.Quality != QualityAuto {
		n, err := strconv.Atoi(string(o.Quality))
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("invalid quality %q: must be auto or 1-100", o.Quality)
		}
	}
	if o.Format != "" && !validFormats[o.Format] {
		return fmt.Errorf("invalid format %q: must be one of auto, webp, jpg, png", o.Format)
	}
	if o.Gravity != "" && !validGravities[o.Gravity] {
		return fmt.Errorf("invalid gravity %q: must be one of auto, face, center, north, south, east, west", o.Gravity)
	}
	return nil
}

// BuildTransformString encodes o as comma-joined tokens in the fixed order
// width, height, crop, quality, format, gravity, e.g. "w_800,h_600,c_fit".
func BuildTransformString(o Options) string {
	var tokens []string
	if o.Width != 0 {
		tokens = append(tokens, "w_"+strconv.Itoa(o.Width))
	}
	if o.Height != 0 {
		tokens = append(tokens, "h_"+strconv.Itoa(o.Height))
	}
	if o.Crop != "" {
		tokens = append(tokens, "c_"+string(o.Crop))
	}
	if o.Quality != "" {
		tokens = append(tokens, "q_"+string(o.Quality))
	}
	if o.Format != "" {
		tokens = append(tokens, "f_"+string(o.Format))
	}
	if o.Gravity != "" {
		tokens = append(tokens, "g_"+string(o.Gravity))
	}
	return strings.Join(tokens, ",")
}

// Merge returns base with every field set in override replacing it.
func Merge(base, override Options) Options {
	out := base
	if override.Width != 0 {
		out.Width = override.Width
	}
	if override.Height != 0 {
		out.Height = override.Height
	}
	if override.Crop != "" {
		out.Crop = override.Crop
	}
	if override.Quality != "" {
		out.Quality = override.Quality
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Gravity != "" {
		out.Gravity = override.Gravity
	}
	return out
}

// SlideOptions is a transform request that may start from a named preset.
// Explicit options win over the preset's values.
type SlideOptions struct {
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`
	Options
}

// ParseOptions reads slide options from query parameters. Both the short
// token names (w, h, c, q, f, g) and the long names (width, height, ...)
// are accepted.
func ParseOptions(values url.Values) (SlideOptions, error) {
	var so SlideOptions
	so.Preset = values.Get("preset")

	get := func(short, long string) string {
		if v := values.Get(short); v != "" {
			return v
		}
		return values.Get(long)
	}

	var err error
	if so.Width, err = parseDimension("width", get("w", "width")); err != nil {
		return SlideOptions{}, err
	}
	if so.Height, err = parseDimension("height", get("h", "height")); err != nil {
		return SlideOptions{}, err
	}
	so.Crop = Crop(get("c", "crop"))
	so.Quality = Quality(get("q", "quality"))
	so.Format = Format(get("f", "format"))
	so.Gravity = Gravity(get("g", "gravity"))

	if err := so.Validate(); err != nil {
		return SlideOptions{}, err
	}
	return so, nil
}

func parseDimension(name, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, v)
	}
	return n, nil
}
