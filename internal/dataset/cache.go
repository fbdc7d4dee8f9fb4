package dataset

// Cache keys.
const (
	keyAllImages   = "all_images"
	keyImagePrefix = "image_"
	keyTagPrefix   = "tag_"
	keyAllTags     = "all_tags"
	keyAllArtists  = "all_artists"
)

// readCache memoizes pure reads. Every mutation must call invalidate
// before returning so no read observes a result computed earlier.
type readCache struct {
	entries map[string]any
}

func newReadCache() *readCache {
	return &readCache{entries: make(map[string]any)}
}

func (c *readCache) get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *readCache) set(key string, v any) {
	c.entries[key] = v
}

func (c *readCache) invalidate() {
	c.entries = make(map[string]any)
}

// cached returns the value stored under key, computing and storing it on
// a miss.
func cached[T any](c *readCache, key string, compute func() T) T {
	if v, ok := c.get(key); ok {
		return v.(T)
	}
	v := compute()
	c.set(key, v)
	return v
}
