// Package transform rewrites image URLs of the CDN with transformation
// parameters. Pixels are never touched; only the URL changes.
//
// Every entry point is a soft no-op for URLs it does not recognize: the
// input is returned unchanged, never an error.
package transform

import (
	"slices"
	"strconv"
	"strings"
)

const (
	// DomainMarker identifies URLs served by the image CDN.
	DomainMarker = "cloudinary.com"
	// PathMarker separates the delivery prefix from the asset path.
	PathMarker = "/upload/"
)

// DefaultBreakpoints are the widths used by GenerateSrcSet.
var DefaultBreakpoints = []int{480, 768, 1024, 1440, 1920}

// IsRecognizedAssetURL reports whether rawURL belongs to the CDN and can
// carry transform parameters.
func IsRecognizedAssetURL(rawURL string) bool {
	return strings.Contains(rawURL, DomainMarker) && strings.Contains(rawURL, PathMarker)
}

// ApplyTransform encodes o and splices it into rawURL.
func ApplyTransform(rawURL string, o Options) string {
	return ApplyTransformString(rawURL, BuildTransformString(o))
}

// ApplyTransformString splices a literal transform string into rawURL.
//
// The first path segment after /upload/ is treated as an existing transform
// segment when it contains no dot, and the new parameters are appended to
// it. Otherwise a new segment is inserted before the path. This misreads
// extensionless file names and version segments such as v1712345 as
// transforms; the behavior is kept for compatibility with existing URLs.
//
// URLs that are unrecognized, or in which /upload/ does not occur exactly
// once, are returned unchanged.
func ApplyTransformString(rawURL, transform string) string {
	if transform == "" || !IsRecognizedAssetURL(rawURL) {
		return rawURL
	}
	if strings.Count(rawURL, PathMarker) != 1 {
		return rawURL
	}

	base, path, _ := strings.Cut(rawURL, PathMarker)
	first, rest, hasRest := strings.Cut(path, "/")
	if first != "" && !strings.Contains(first, ".") {
		merged := first + "," + transform
		if hasRest {
			return base + PathMarker + merged + "/" + rest
		}
		return base + PathMarker + merged
	}
	return base + PathMarker + transform + "/" + path
}

// GenerateSrcSet builds a srcset attribute value with one entry per
// breakpoint, each width-limited with automatic quality and format.
// DefaultBreakpoints are used when none are given. Unrecognized URLs
// produce "".
func GenerateSrcSet(rawURL string, breakpoints ...int) string {
	if !IsRecognizedAssetURL(rawURL) {
		return ""
	}
	if len(breakpoints) == 0 {
		breakpoints = DefaultBreakpoints
	}

	entries := make([]string, 0, len(breakpoints))
	for _, w := range breakpoints {
		u := ApplyTransform(rawURL, Options{Width: w, Quality: QualityAuto, Format: FormatAuto})
		entries = append(entries, u+" "+strconv.Itoa(w)+"w")
	}
	return strings.Join(entries, ", ")
}

// ExtractAssetID returns the asset id of a CDN URL: the last path segment
// up to its first dot. It reports false if the URL has no "upload" segment
// or the id would be empty.
func ExtractAssetID(rawURL string) (string, bool) {
	parts := strings.Split(rawURL, "/")
	if !slices.Contains(parts, "upload") {
		return "", false
	}
	id, _, _ := strings.Cut(parts[len(parts)-1], ".")
	if id == "" {
		return "", false
	}
	return id, true
}
