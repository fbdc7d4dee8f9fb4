package dataset

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenRemoveImage(t *testing.T) {
	m, _ := newTestManager(t)

	m.AddImages(map[string]model.ImageRecord{
		"x": {Src: "https://res.cloudinary.com/demo/image/upload/x.jpg", Caption: "X"},
	})
	rec, ok := m.Image("x")
	require.True(t, ok)
	assert.Equal(t, "X", rec.Caption)
	assert.NotNil(t, rec.Metadata)
	assert.NotNil(t, rec.Tags)

	assert.True(t, m.RemoveImage("x"))
	_, ok = m.Image("x")
	assert.False(t, ok)
	assert.False(t, m.RemoveImage("x"))
}

func TestAddImagesUpserts(t *testing.T) {
	m, _ := newTestManager(t)

	m.AddImages(map[string]model.ImageRecord{
		"mona-lisa": {Caption: "La Gioconda"},
		"b-new":     {Caption: "B"},
		"a-new":     {Caption: "A"},
	})

	rec, _ := m.Image("mona-lisa")
	assert.Equal(t, "La Gioconda", rec.Caption)
	assert.Equal(t, []string{"starry-night", "mona-lisa", "water-lilies", "a-new", "b-new"}, ids(m.AllImages()))
}

func TestAddCatalogKeepsOrder(t *testing.T) {
	m, _ := newTestManager(t)

	var c model.Catalog
	require.NoError(t, json.Unmarshal([]byte(`{"zz":{"caption":"z"},"aa":{"caption":"a"}}`), &c))
	m.AddCatalog(&c)

	got := ids(m.AllImages())
	assert.Equal(t, []string{"zz", "aa"}, got[len(got)-2:])
}

func TestMutationsInvalidateCache(t *testing.T) {
	m, _ := newTestManager(t)

	// Warm every cache.
	require.Len(t, m.AllImages(), 3)
	require.Len(t, m.ImagesByTag("landscape"), 2)
	_, ok := m.Image("new")
	require.False(t, ok)
	require.NotContains(t, m.AllTags(), "fresh")

	m.AddImages(map[string]model.ImageRecord{"new": {Caption: "new", Tags: []string{"landscape", "fresh"}}})
	assert.Empty(t, m.cache.entries)

	assert.Len(t, m.AllImages(), 4)
	assert.Len(t, m.ImagesByTag("landscape"), 3)
	_, ok = m.Image("new")
	assert.True(t, ok)
	assert.Contains(t, m.AllTags(), "fresh")

	m.RemoveImage("starry-night")
	assert.Len(t, m.AllImages(), 3)
	assert.Len(t, m.ImagesByTag("landscape"), 2)
	assert.NotContains(t, m.AllArtists(), "Vincent van Gogh")

	var images model.Catalog
	require.NoError(t, json.Unmarshal([]byte(`{"mona-lisa":{"caption":"replaced","tags":["landscape"]}}`), &images))
	m.UpdateDataset(Update{Images: &images})
	assert.Len(t, m.ImagesByTag("landscape"), 3)
	rec, _ := m.Image("mona-lisa")
	assert.Equal(t, "replaced", rec.Caption)
}

func TestMutationsAdvanceUpdatedAt(t *testing.T) {
	m, _ := newTestManager(t)

	mutations := []func(){
		func() { m.AddImages(map[string]model.ImageRecord{"x": {}}) },
		func() { m.AddCatalog(model.NewCatalog()) },
		func() { m.RemoveImage("x") },
		func() { m.UpdateDataset(Update{}) },
	}

	for _, mutate := range mutations {
		before := m.Metadata().UpdatedAt
		mutate()
		after := m.Metadata().UpdatedAt
		assert.True(t, after.After(before), "updatedAt %v should be after %v", after, before)
	}
}

func TestUpdatedAtNeverMovesBackwards(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := Parse([]byte(sampleJSON), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	m.AddImages(map[string]model.ImageRecord{"x": {}})
	first := m.Metadata().UpdatedAt

	now = now.Add(-time.Hour)
	m.RemoveImage("x")
	assert.Equal(t, first, m.Metadata().UpdatedAt)
}

func TestRemoveMissingImageIsNotAMutation(t *testing.T) {
	m, _ := newTestManager(t)

	before := m.Metadata().UpdatedAt
	require.NotEmpty(t, m.AllImages())
	warm := len(m.cache.entries)
	assert.False(t, m.RemoveImage("missing"))
	assert.Equal(t, before, m.Metadata().UpdatedAt)
	assert.Len(t, m.cache.entries, warm)
}

func TestUpdateDatasetMergesMetadata(t *testing.T) {
	m, _ := newTestManager(t)
	before := m.Metadata()

	desc := "Updated description"
	stale := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	m.UpdateDataset(Update{Metadata: &MetadataPatch{
		Description: &desc,
		Tags:        []string{"updated"},
		UpdatedAt:   &stale,
	}})

	meta := m.Metadata()
	assert.Equal(t, desc, meta.Description)
	assert.Equal(t, []string{"updated"}, meta.Tags)
	assert.Equal(t, before.Version, meta.Version)
	assert.Equal(t, before.CreatedAt, meta.CreatedAt)
	assert.True(t, meta.UpdatedAt.After(before.UpdatedAt))
	assert.NotEqual(t, stale, meta.UpdatedAt)
}

func TestUpdateFromJSON(t *testing.T) {
	m, _ := newTestManager(t)

	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{
		"metadata": {"description": "from json", "updatedAt": "1999-01-01T00:00:00Z"},
		"images": {"new": {"src": "n.jpg", "tags": "bad"}}
	}`), &u))
	m.UpdateDataset(u)

	assert.Equal(t, "from json", m.Metadata().Description)
	assert.NotEqual(t, 1999, m.Metadata().UpdatedAt.Year())
	rec, ok := m.Image("new")
	require.True(t, ok)
	assert.Equal(t, []string{}, rec.Tags)
}
