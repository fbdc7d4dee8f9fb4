package dataset

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
	"metadata": {
		"version": "v2025-08-17T12-30-45-123Z",
		"createdAt": "2025-08-17T12:30:45.123Z",
		"updatedAt": "2025-08-17T12:30:45.123Z",
		"description": "Famous paintings",
		"tags": ["art"],
		"schemaVersion": "1.0.0"
	},
	"images": {
		"starry-night": {
			"src": "https://res.cloudinary.com/demo/image/upload/starry-night.jpg",
			"caption": "The Starry Night",
			"metadata": {"artist": "Vincent van Gogh", "year": 1889, "collection": "Museum of Modern Art"},
			"tags": ["post-impressionism", "night", "landscape"],
			"transformPresets": {"hero": "w_1200,h_600,c_fill,g_north"}
		},
		"mona-lisa": {
			"src": "https://res.cloudinary.com/demo/image/upload/mona-lisa.jpg",
			"caption": "Mona Lisa",
			"metadata": {"artist": "Leonardo da Vinci", "year": "1503", "collection": "Louvre"},
			"tags": ["renaissance", "portrait"]
		},
		"water-lilies": {
			"src": "https://example.com/water-lilies.jpg",
			"caption": "Water Lilies at night",
			"metadata": {"artist": "Claude Monet", "year": 1906},
			"tags": ["impressionism", "landscape"]
		}
	}
}`

// stepClock returns a clock that advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]Option{
		WithLogger(logger),
		WithClock(stepClock(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))),
	}, opts...)
	m, err := Parse([]byte(sampleJSON), opts...)
	require.NoError(t, err)
	return m, &logs
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestNewRejectsInvalidDataset(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilDataset)

	var nilMap map[string]any
	_, err = New(nilMap)
	assert.ErrorIs(t, err, ErrNilDataset)

	for _, raw := range []any{"string", 42, []any{1, 2}, true} {
		_, err := New(raw)
		assert.ErrorIs(t, err, ErrInvalidDataset, "%T", raw)
	}
}

func TestParseRejectsInvalidDataset(t *testing.T) {
	_, err := Parse([]byte(`null`))
	assert.ErrorIs(t, err, ErrNilDataset)

	for _, doc := range []string{`[]`, `"x"`, `12`, `{broken`} {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidDataset, doc)
	}
}

func TestNewSynthesizesMissingParts(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	m, err := New(map[string]any{"images": "not an object"}, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	meta := m.Metadata()
	assert.Equal(t, version.GenerateVersionAt(now), meta.Version)
	assert.Equal(t, now, meta.CreatedAt)
	assert.Equal(t, now, meta.UpdatedAt)
	assert.Equal(t, version.SchemaVersion, meta.SchemaVersion)
	assert.Empty(t, m.AllImages())
}

func TestNewSanitizesImagesAndSortsIDs(t *testing.T) {
	m, err := New(map[string]any{
		"metadata": map[string]any{"description": "partial", "tags": []any{"a", 1.0}},
		"images": map[string]any{
			"b": map[string]any{"src": "b.jpg", "tags": "oops"},
			"a": "malformed",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ids(m.AllImages()))

	a, ok := m.Image("a")
	require.True(t, ok)
	assert.Equal(t, "", a.Src)
	assert.NotNil(t, a.Tags)

	b, _ := m.Image("b")
	assert.Equal(t, "b.jpg", b.Src)
	assert.Equal(t, []string{}, b.Tags)

	meta := m.Metadata()
	assert.Equal(t, "partial", meta.Description)
	assert.Equal(t, []string{"a"}, meta.Tags)
	assert.Equal(t, version.SchemaVersion, meta.SchemaVersion)
	assert.NotEmpty(t, meta.Version)
}

func TestParseKeepsCatalogOrderAndMetadata(t *testing.T) {
	m, _ := newTestManager(t)

	assert.Equal(t, []string{"starry-night", "mona-lisa", "water-lilies"}, ids(m.AllImages()))

	meta := m.Metadata()
	assert.Equal(t, "v2025-08-17T12-30-45-123Z", meta.Version)
	assert.Equal(t, time.Date(2025, 8, 17, 12, 30, 45, 123_000_000, time.UTC), meta.CreatedAt)
	assert.Equal(t, "Famous paintings", meta.Description)
}

func TestFromDataset(t *testing.T) {
	src, _ := newTestManager(t)
	ds := src.Export()

	m := FromDataset(ds)
	assert.Equal(t, ids(src.AllImages()), ids(m.AllImages()))
	assert.Equal(t, ds.Metadata, m.Metadata())
}

func TestImage(t *testing.T) {
	m, _ := newTestManager(t)

	rec, ok := m.Image("mona-lisa")
	require.True(t, ok)
	assert.Equal(t, "Mona Lisa", rec.Caption)

	_, ok = m.Image("missing")
	assert.False(t, ok)
}

func TestReadsReturnCopies(t *testing.T) {
	m, _ := newTestManager(t)

	rec, _ := m.Image("mona-lisa")
	rec.Tags[0] = "changed"
	rec.Metadata["artist"] = model.StringValue("someone")

	all := m.AllImages()
	all[0].Caption = "changed"

	meta := m.Metadata()
	meta.Tags[0] = "changed"

	again, _ := m.Image("mona-lisa")
	assert.Equal(t, "renaissance", again.Tags[0])
	assert.Equal(t, "Leonardo da Vinci", again.Meta(model.MetaArtist))
	assert.Equal(t, "The Starry Night", m.AllImages()[0].Caption)
	assert.Equal(t, "art", m.Metadata().Tags[0])
}

func TestImagesByTag(t *testing.T) {
	m, _ := newTestManager(t)

	assert.Equal(t, []string{"starry-night", "water-lilies"}, ids(m.ImagesByTag("landscape")))
	assert.Equal(t, []string{"mona-lisa"}, ids(m.ImagesByTag("portrait")))
	assert.Empty(t, m.ImagesByTag("sculpture"))
}

func TestSearchImages(t *testing.T) {
	m, _ := newTestManager(t)

	tests := []struct {
		name  string
		query string
		opts  SearchOptions
		want  []string
	}{
		{name: "empty query matches all", want: []string{"starry-night", "mona-lisa", "water-lilies"}},
		{name: "caption substring is case insensitive", query: "NIGHT", want: []string{"starry-night", "water-lilies"}},
		{name: "tags any-of", opts: SearchOptions{Tags: []string{"portrait", "impressionism"}}, want: []string{"mona-lisa", "water-lilies"}},
		{name: "artist substring", opts: SearchOptions{Artist: "van gogh"}, want: []string{"starry-night"}},
		{name: "numeric year compares as text", opts: SearchOptions{Year: "1889"}, want: []string{"starry-night"}},
		{name: "string year", opts: SearchOptions{Year: "1503"}, want: []string{"mona-lisa"}},
		{name: "year is exact", opts: SearchOptions{Year: "188"}, want: []string{}},
		{name: "collection substring", opts: SearchOptions{Collection: "louvre"}, want: []string{"mona-lisa"}},
		{name: "filters are combined", query: "night", opts: SearchOptions{Tags: []string{"landscape"}, Artist: "monet"}, want: []string{"water-lilies"}},
		{name: "limit truncates", opts: SearchOptions{Limit: 2}, want: []string{"starry-night", "mona-lisa"}},
		{name: "no match", query: "sunflowers", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(m.SearchImages(tt.query, tt.opts)))
		})
	}
}

func TestSearchLimitOnTwoImageCatalog(t *testing.T) {
	m, err := Parse([]byte(`{"images":{"first":{"caption":"a"},"second":{"caption":"b"}}}`))
	require.NoError(t, err)

	got := m.SearchImages("", SearchOptions{Limit: 1})
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].ID)
}

func TestAllTagsAndArtists(t *testing.T) {
	m, _ := newTestManager(t)

	assert.Equal(t,
		[]string{"impressionism", "landscape", "night", "portrait", "post-impressionism", "renaissance"},
		m.AllTags())
	assert.Equal(t, []string{"Claude Monet", "Leonardo da Vinci", "Vincent van Gogh"}, m.AllArtists())

	empty, err := New(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.AllTags())
	assert.Equal(t, []string{}, empty.AllArtists())
}

func TestExportIsDeepCopy(t *testing.T) {
	m, _ := newTestManager(t)

	ds := m.Export()
	ds.Images.Delete("mona-lisa")
	rec, _ := ds.Images.Get("starry-night")
	rec.Tags[0] = "changed"
	ds.Metadata.Tags[0] = "changed"

	_, ok := m.Image("mona-lisa")
	assert.True(t, ok)
	orig, _ := m.Image("starry-night")
	assert.Equal(t, "post-impressionism", orig.Tags[0])
	assert.Equal(t, "art", m.Metadata().Tags[0])

	data, err := json.Marshal(m.Export())
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, ids(m.AllImages()), ids(again.AllImages()))
	assert.Equal(t, m.Metadata().Version, again.Metadata().Version)
}

func TestEntryJSONRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)

	data, err := json.Marshal(m.AllImages())
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.AllImages(), decoded)
}

func TestTwoManagersAreIndependent(t *testing.T) {
	raw := map[string]any{"images": map[string]any{"x": map[string]any{"src": "x.jpg"}}}
	a, err := New(raw)
	require.NoError(t, err)
	b, err := New(raw)
	require.NoError(t, err)

	a.RemoveImage("x")
	_, ok := b.Image("x")
	assert.True(t, ok)
}

func TestConstructionAcceptsAnySchemaVersion(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	for _, sv := range []string{"1.0.0", "0.9.0", "2.0.0-beta"} {
		t.Run(sv, func(t *testing.T) {
			logs.Reset()
			m, err := Parse([]byte(`{"metadata": {"schemaVersion": "`+sv+`"}}`), WithLogger(logger))
			require.NoError(t, err)
			assert.Equal(t, sv, m.Metadata().SchemaVersion)

			again := FromDataset(m.Export(), WithLogger(logger))
			assert.Equal(t, sv, again.Metadata().SchemaVersion)
			assert.NotContains(t, logs.String(), "schema may be incompatible")
		})
	}
}
