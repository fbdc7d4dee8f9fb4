package model

import (
	"encoding/json"
	"slices"
	"time"
)

// InstantLayout is ISO-8601 with exactly three fractional digits. Metadata
// instants are always rendered in UTC with this layout.
const InstantLayout = "2006-01-02T15:04:05.000Z07:00"

// DatasetMetadata describes a whole catalog.
type DatasetMetadata struct {
	Version       string    `json:"version" yaml:"version"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	SchemaVersion string    `json:"schemaVersion" yaml:"schemaVersion"`
}

// metadataDoc is the wire form of DatasetMetadata.
type metadataDoc struct {
	Version       string   `json:"version" yaml:"version"`
	CreatedAt     string   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     string   `json:"updatedAt" yaml:"updatedAt"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	SchemaVersion string   `json:"schemaVersion" yaml:"schemaVersion"`
}

func (m DatasetMetadata) doc() metadataDoc {
	return metadataDoc{
		Version:       m.Version,
		CreatedAt:     m.CreatedAt.UTC().Format(InstantLayout),
		UpdatedAt:     m.UpdatedAt.UTC().Format(InstantLayout),
		Description:   m.Description,
		Tags:          m.Tags,
		SchemaVersion: m.SchemaVersion,
	}
}

// MarshalJSON renders both instants with millisecond precision.
func (m DatasetMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.doc())
}

// MarshalYAML matches MarshalJSON so exports agree across formats.
func (m DatasetMetadata) MarshalYAML() (interface{}, error) {
	return m.doc(), nil
}

// Clone returns a copy of m that shares no slices with it.
func (m DatasetMetadata) Clone() DatasetMetadata {
	m.Tags = slices.Clone(m.Tags)
	return m
}

// Dataset is the serialized form of a catalog plus its metadata.
type Dataset struct {
	Metadata DatasetMetadata `json:"metadata" yaml:"metadata"`
	Images   *Catalog        `json:"images" yaml:"images"`
}

// Clone returns a deep copy of d.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Metadata: d.Metadata.Clone(),
		Images:   d.Images.Clone(),
	}
}

// Snapshot is a stored copy of an exported dataset.
type Snapshot struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	SchemaVersion string    `json:"schemaVersion"`
	ImageCount    int       `json:"imageCount"`
	CreatedAt     time.Time `json:"createdAt"`
	Payload       []byte    `json:"-"`
}
