package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/leca/cdn-slide-dataset/internal/dataset"
)

// LoadDataset reads the document stored under name and builds a Manager
// from it, keeping the catalog order of the file.
func LoadDataset(s Storage, name string, opts ...dataset.Option) (*dataset.Manager, error) {
	rc, err := s.Retrieve(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", name, err)
	}
	m, err := dataset.Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", name, err)
	}
	return m, nil
}

// SaveDataset writes the export of m under name as indented JSON.
func SaveDataset(s Storage, name string, m *dataset.Manager) (int64, error) {
	data, err := json.MarshalIndent(m.Export(), "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding dataset %s: %w", name, err)
	}
	data = append(data, '\n')
	return s.Store(name, bytes.NewReader(data))
}
