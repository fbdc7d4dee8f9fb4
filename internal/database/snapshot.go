package database

import (
	"encoding/json"
	"fmt"

	"github.com/leca/cdn-slide-dataset/internal/model"
)

// NewSnapshot captures ds as a snapshot of name. The snapshot version is
// the dataset's metadata version.
func NewSnapshot(name string, ds model.Dataset) (*model.Snapshot, error) {
	payload, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot payload: %w", err)
	}
	return &model.Snapshot{
		Name:          name,
		Version:       ds.Metadata.Version,
		SchemaVersion: ds.Metadata.SchemaVersion,
		ImageCount:    ds.Images.Len(),
		Payload:       payload,
	}, nil
}
