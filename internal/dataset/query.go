package dataset

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/leca/cdn-slide-dataset/internal/model"
)

// Entry is an image record annotated with its id.
type Entry struct {
	ID                string `json:"id" yaml:"id"`
	model.ImageRecord `yaml:",inline"`
}

// UnmarshalJSON decodes the id alongside the embedded record, whose own
// UnmarshalJSON would otherwise take over.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := e.ImageRecord.UnmarshalJSON(data); err != nil {
		return err
	}
	e.ID = head.ID
	return nil
}

func (e Entry) clone() Entry {
	return Entry{ID: e.ID, ImageRecord: e.ImageRecord.Clone()}
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// SearchOptions narrows SearchImages. Every supplied filter must match.
type SearchOptions struct {
	// Tags matches records carrying at least one of the tags.
	Tags []string
	// Artist is a case-insensitive substring of metadata.artist.
	Artist string
	// Year must equal metadata.year compared as text.
	Year string
	// Collection is a case-insensitive substring of metadata.collection.
	Collection string
	// Limit caps the number of results when positive.
	Limit int
}

type lookup struct {
	rec model.ImageRecord
	ok  bool
}

// record returns the cached record for id without copying it.
func (m *Manager) record(id string) (model.ImageRecord, bool) {
	l := cached(m.cache, keyImagePrefix+id, func() lookup {
		rec, ok := m.images.Get(id)
		return lookup{rec: rec, ok: ok}
	})
	return l.rec, l.ok
}

func (m *Manager) allImages() []Entry {
	return cached(m.cache, keyAllImages, func() []Entry {
		entries := make([]Entry, 0, m.images.Len())
		for id, rec := range m.images.All() {
			entries = append(entries, Entry{ID: id, ImageRecord: rec})
		}
		return entries
	})
}

// Image returns the record stored under id.
func (m *Manager) Image(id string) (model.ImageRecord, bool) {
	rec, ok := m.record(id)
	if !ok {
		return model.ImageRecord{}, false
	}
	return rec.Clone(), true
}

// Len returns the number of images in the catalog.
func (m *Manager) Len() int {
	return m.images.Len()
}

// AllImages returns every record in catalog order.
func (m *Manager) AllImages() []Entry {
	return cloneEntries(m.allImages())
}

// ImagesByTag returns the records carrying tag, in catalog order.
func (m *Manager) ImagesByTag(tag string) []Entry {
	entries := cached(m.cache, keyTagPrefix+tag, func() []Entry {
		out := []Entry{}
		for _, e := range m.allImages() {
			if e.HasTag(tag) {
				out = append(out, e)
			}
		}
		return out
	})
	return cloneEntries(entries)
}

// SearchImages returns the records whose caption contains query (case
// insensitive; "" matches everything) and that pass every filter in opts.
// Results keep catalog order. Searches are not cached.
func (m *Manager) SearchImages(query string, opts SearchOptions) []Entry {
	q := strings.ToLower(query)
	out := []Entry{}
	for _, e := range m.allImages() {
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Caption), q) {
			continue
		}
		if len(opts.Tags) > 0 && !slices.ContainsFunc(opts.Tags, e.HasTag) {
			continue
		}
		if opts.Artist != "" && !containsFold(e.Meta(model.MetaArtist), opts.Artist) {
			continue
		}
		if opts.Year != "" && e.Meta(model.MetaYear) != opts.Year {
			continue
		}
		if opts.Collection != "" && !containsFold(e.Meta(model.MetaCollection), opts.Collection) {
			continue
		}
		out = append(out, e.clone())
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// AllTags returns every tag used in the catalog, deduplicated and sorted.
func (m *Manager) AllTags() []string {
	tags := cached(m.cache, keyAllTags, func() []string {
		var out []string
		for _, e := range m.allImages() {
			out = append(out, e.Tags...)
		}
		return sortedUnique(out)
	})
	return slices.Clone(tags)
}

// AllArtists returns every metadata.artist value, deduplicated and sorted.
func (m *Manager) AllArtists() []string {
	artists := cached(m.cache, keyAllArtists, func() []string {
		var out []string
		for _, e := range m.allImages() {
			if a := e.Meta(model.MetaArtist); a != "" {
				out = append(out, a)
			}
		}
		return sortedUnique(out)
	})
	return slices.Clone(artists)
}

func sortedUnique(values []string) []string {
	if values == nil {
		return []string{}
	}
	slices.Sort(values)
	return slices.Compact(values)
}

// Metadata returns a copy of the dataset metadata.
func (m *Manager) Metadata() model.DatasetMetadata {
	return m.metadata.Clone()
}

// Export returns a deep copy of the whole dataset.
func (m *Manager) Export() model.Dataset {
	return model.Dataset{
		Metadata: m.metadata.Clone(),
		Images:   m.images.Clone(),
	}
}
