// Package dataset holds one image catalog in memory and answers lookup,
// filter and search queries over it. Display URLs are produced by the
// transform package; metadata is stamped by the version package.
//
// A Manager is not safe for concurrent use. Reads fill an internal cache,
// so even read-only callers sharing a Manager across goroutines must
// serialize access.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/version"
)

var (
	// ErrNilDataset is returned when construction is given no dataset.
	ErrNilDataset = errors.New("dataset is nil")
	// ErrInvalidDataset is returned when the dataset is not a JSON object.
	ErrInvalidDataset = errors.New("dataset must be a JSON object")
	// ErrImageNotFound reports an unknown image id.
	ErrImageNotFound = errors.New("image not found")
)

// Manager owns a dataset and serves queries and mutations over it.
type Manager struct {
	metadata model.DatasetMetadata
	images   *model.Catalog
	cache    *readCache
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for metadata stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger that receives warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func newManager(opts []Option) *Manager {
	m := &Manager{
		images: model.NewCatalog(),
		cache:  newReadCache(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// New builds a Manager from a decoded JSON value. raw must be a
// map[string]any; nil fails with ErrNilDataset and any other shape with
// ErrInvalidDataset. Missing metadata is synthesized, missing images
// become an empty catalog, and every image is sanitized. Go maps carry no
// key order, so images are added in sorted id order; use Parse to keep the
// order of a JSON document.
func New(raw any, opts ...Option) (*Manager, error) {
	if raw == nil {
		return nil, ErrNilDataset
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDataset, raw)
	}
	if obj == nil {
		return nil, ErrNilDataset
	}

	m := newManager(opts)
	m.metadata = sanitizeMetadata(obj["metadata"], m.now())
	m.checkSchema()
	if imgs, ok := obj["images"].(map[string]any); ok {
		for _, id := range slices.Sorted(maps.Keys(imgs)) {
			m.images.Set(id, model.SanitizeImageRecord(imgs[id]))
		}
	}
	return m, nil
}

// Parse builds a Manager from JSON. The catalog keeps the order of the
// keys of the "images" object.
func Parse(data []byte, opts ...Option) (*Manager, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if top == nil {
		return nil, ErrNilDataset
	}

	m := newManager(opts)

	var rawMeta any
	if b, ok := top["metadata"]; ok {
		if err := json.Unmarshal(b, &rawMeta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	m.metadata = sanitizeMetadata(rawMeta, m.now())
	m.checkSchema()

	if b, ok := top["images"]; ok && isJSONObject(b) {
		if err := json.Unmarshal(b, m.images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return m, nil
}

// FromDataset builds a Manager from a typed dataset, copying it.
func FromDataset(ds model.Dataset, opts ...Option) *Manager {
	m := newManager(opts)
	m.metadata = ds.Metadata.Clone()
	fillMetadataDefaults(&m.metadata, m.now())
	m.checkSchema()
	for id, rec := range ds.Images.All() {
		m.images.Set(id, model.SanitizeImageRecord(rec))
	}
	return m
}

// checkSchema logs datasets whose schema this build may not read
// correctly. Loading continues either way.
func (m *Manager) checkSchema() {
	if !version.IsCompatible(m.metadata.SchemaVersion) {
		m.logger.Debug("dataset schema may be incompatible",
			"schemaVersion", m.metadata.SchemaVersion,
			"supported", version.SchemaVersion)
	}
}

func isJSONObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// sanitizeMetadata keeps the type-correct fields of a raw metadata object
// and fills in the rest. A missing or non-object value is replaced by
// fresh metadata.
func sanitizeMetadata(raw any, now time.Time) model.DatasetMetadata {
	obj, ok := raw.(map[string]any)
	if !ok {
		return version.CreateMetadataAt(now, "", nil)
	}

	meta := model.DatasetMetadata{}
	meta.Version, _ = obj["version"].(string)
	meta.Description, _ = obj["description"].(string)
	meta.SchemaVersion, _ = obj["schemaVersion"].(string)
	meta.CreatedAt = parseInstant(obj["createdAt"])
	meta.UpdatedAt = parseInstant(obj["updatedAt"])
	if list, ok := obj["tags"].([]any); ok {
		meta.Tags = []string{}
		for _, item := range list {
			if s, ok := item.(string); ok {
				meta.Tags = append(meta.Tags, s)
			}
		}
	}
	fillMetadataDefaults(&meta, now)
	return meta
}

func fillMetadataDefaults(meta *model.DatasetMetadata, now time.Time) {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now.UTC()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = meta.CreatedAt
	}
	if meta.Version == "" {
		meta.Version = version.GenerateVersionAt(meta.CreatedAt)
	}
	if meta.SchemaVersion == "" {
		meta.SchemaVersion = version.SchemaVersion
	}
}

func parseInstant(raw any) time.Time {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
