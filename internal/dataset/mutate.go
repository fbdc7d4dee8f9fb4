package dataset

import (
	"maps"
	"slices"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/model"
)

// MetadataPatch lists the metadata fields to overwrite. Nil fields are
// left alone. UpdatedAt is accepted for shape compatibility but always
// replaced by the current time.
type MetadataPatch struct {
	Version       *string    `json:"version,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	SchemaVersion *string    `json:"schemaVersion,omitempty"`
}

// Update is a partial dataset merged by UpdateDataset.
type Update struct {
	Metadata *MetadataPatch `json:"metadata,omitempty"`
	Images   *model.Catalog `json:"images,omitempty"`
}

// touch finishes a mutation: the cache is dropped and UpdatedAt moves to
// now. UpdatedAt never moves backwards.
func (m *Manager) touch() {
	m.cache.invalidate()
	now := m.now().UTC()
	if now.Before(m.metadata.UpdatedAt) {
		now = m.metadata.UpdatedAt
	}
	m.metadata.UpdatedAt = now
}

// AddImages upserts records. Existing ids are overwritten in place; new
// ids are appended in sorted id order.
func (m *Manager) AddImages(records map[string]model.ImageRecord) {
	for _, id := range slices.Sorted(maps.Keys(records)) {
		m.images.Set(id, model.SanitizeImageRecord(records[id]))
	}
	m.touch()
}

// AddCatalog upserts every record of c, appending new ids in c's order.
func (m *Manager) AddCatalog(c *model.Catalog) {
	for id, rec := range c.All() {
		m.images.Set(id, model.SanitizeImageRecord(rec))
	}
	m.touch()
}

// RemoveImage deletes id and reports whether it existed.
func (m *Manager) RemoveImage(id string) bool {
	if !m.images.Delete(id) {
		m.logger.Debug("remove: image not found", "id", id)
		return false
	}
	m.touch()
	return true
}

// UpdateDataset merges u into the dataset: images are upserted entry by
// entry and the metadata patch is applied field by field.
func (m *Manager) UpdateDataset(u Update) {
	for id, rec := range u.Images.All() {
		m.images.Set(id, model.SanitizeImageRecord(rec))
	}
	if p := u.Metadata; p != nil {
		if p.Version != nil {
			m.metadata.Version = *p.Version
		}
		if p.CreatedAt != nil {
			m.metadata.CreatedAt = p.CreatedAt.UTC()
		}
		if p.Description != nil {
			m.metadata.Description = *p.Description
		}
		if p.Tags != nil {
			m.metadata.Tags = slices.Clone(p.Tags)
		}
		if p.SchemaVersion != nil {
			m.metadata.SchemaVersion = *p.SchemaVersion
		}
	}
	m.touch()
}
