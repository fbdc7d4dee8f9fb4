package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog maps image ids to records and remembers insertion order.
// Decoding from JSON keeps the order of the object's keys. The zero value
// is an empty catalog ready to use.
type Catalog struct {
	ids     []string
	records map[string]ImageRecord
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{records: map[string]ImageRecord{}}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// IDs returns the ids in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return []string{}
	}
	return slices.Clone(c.ids)
}

// Get returns the record stored under id.
func (c *Catalog) Get(id string) (ImageRecord, bool) {
	if c == nil {
		return ImageRecord{}, false
	}
	rec, ok := c.records[id]
	return rec, ok
}

// Set stores rec under id. A new id is appended to the order; an existing
// id keeps its position.
func (c *Catalog) Set(id string, rec ImageRecord) {
	if c.records == nil {
		c.records = map[string]ImageRecord{}
	}
	if _, ok := c.records[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.records[id] = rec
}

// Delete removes id and reports whether it was present.
func (c *Catalog) Delete(id string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.records[id]; !ok {
		return false
	}
	delete(c.records, id)
	if i := slices.Index(c.ids, id); i >= 0 {
		c.ids = slices.Delete(c.ids, i, i+1)
	}
	return true
}

// All iterates over the records in catalog order.
func (c *Catalog) All() iter.Seq2[string, ImageRecord] {
	return func(yield func(string, ImageRecord) bool) {
		if c == nil {
			return
		}
		for _, id := range c.ids {
			if !yield(id, c.records[id]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for id, rec := range c.All() {
		out.Set(id, rec.Clone())
	}
	return out
}

// MarshalJSON writes the catalog as a JSON object in catalog order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for id, rec := range c.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal image %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order and sanitizing
// every record. A JSON null yields an empty catalog.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	c.ids = nil
	c.records = map[string]ImageRecord{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog must be a JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read catalog key: %w", err)
		}
		id, _ := keyTok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("read image %q: %w", id, err)
		}
		c.Set(id, SanitizeImageRecord(raw))
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read catalog end: %w", err)
	}
	return nil
}

// MarshalYAML writes the catalog as an ordered YAML mapping.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for id, rec := range c.All() {
		var val yaml.Node
		if err := val.Encode(rec); err != nil {
			return nil, fmt.Errorf("encode image %q: %w", id, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&val,
		)
	}
	return node, nil
}
