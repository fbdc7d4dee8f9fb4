// Package version generates and parses the timestamp identifiers stamped
// on datasets, and builds fresh dataset metadata.
//
// A version looks like v2025-08-17T12-30-45-123Z: the UTC instant in
// ISO-8601 form with millisecond precision, with ':' and '.' replaced by
// '-' so the identifier is safe in file names and URL paths.
package version

import (
	"slices"
	"strings"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/model"
)

// SchemaVersion is the dataset schema written into new metadata.
const SchemaVersion = "1.0.0"

// FormatInstant renders t in UTC as ISO-8601 with millisecond precision.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(model.InstantLayout)
}

// GenerateVersion returns a version identifier for the current time.
func GenerateVersion() string {
	return GenerateVersionAt(time.Now())
}

// GenerateVersionAt returns the version identifier for t.
func GenerateVersionAt(t time.Time) string {
	iso := FormatInstant(t)
	iso = strings.NewReplacer(":", "-", ".", "-").Replace(iso)
	return "v" + iso
}

// ParseVersion reverses GenerateVersion. It reports false when v does not
// have the expected shape.
func ParseVersion(v string) (time.Time, bool) {
	body, ok := strings.CutPrefix(v, "v")
	if !ok {
		return time.Time{}, false
	}
	// YYYY, MM, DDTHH, mm, ss, mmmZ
	parts := strings.Split(body, "-")
	if len(parts) != 6 {
		return time.Time{}, false
	}
	iso := parts[0] + "-" + parts[1] + "-" + parts[2] + ":" + parts[3] + ":" + parts[4] + "." + parts[5]
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CompareVersions orders two versions by their instants, returning -1, 0
// or 1. If either fails to parse the raw strings are compared instead.
func CompareVersions(a, b string) int {
	ta, okA := ParseVersion(a)
	tb, okB := ParseVersion(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}

// IsCompatible reports whether a dataset stamped with v can be read.
// Every version is currently accepted; schema gating is not implemented.
func IsCompatible(v string) bool {
	return true
}

// CreateMetadata returns metadata for a new dataset created now.
func CreateMetadata(description string, tags ...string) model.DatasetMetadata {
	return CreateMetadataAt(time.Now(), description, tags)
}

// CreateMetadataAt returns metadata for a dataset created at t.
func CreateMetadataAt(t time.Time, description string, tags []string) model.DatasetMetadata {
	t = t.UTC()
	return model.DatasetMetadata{
		Version:       GenerateVersionAt(t),
		CreatedAt:     t,
		UpdatedAt:     t,
		Description:   description,
		Tags:          slices.Clone(tags),
		SchemaVersion: SchemaVersion,
	}
}
