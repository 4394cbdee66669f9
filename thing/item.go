package thing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item is a structured record produced by crawl logic. The network layer
// never touches Items; they only flow through the item pipeline chain.
// Fields keep their insertion order so dump pipelines and reports iterate
// deterministically.
type Item struct {
	keys   []string
	fields map[string]any
}

// NewItem creates an empty Item.
func NewItem() *Item {
	return &Item{fields: make(map[string]any)}
}

// Kind implements Thing.
func (i *Item) Kind() string { return KindItem }

// Set stores value under key, keeping first-set order. Setting an
// existing key replaces the value in place. Returns the Item for chaining.
func (i *Item) Set(key string, value any) *Item {
	if _, ok := i.fields[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.fields[key] = value
	return i
}

// Get returns the value stored under key.
func (i *Item) Get(key string) (any, bool) {
	v, ok := i.fields[key]
	return v, ok
}

// GetString returns the value under key if it is a string, else "".
func (i *Item) GetString(key string) string {
	if s, ok := i.fields[key].(string); ok {
		return s
	}
	return ""
}

// Keys returns the field names in insertion order.
func (i *Item) Keys() []string {
	keys := make([]string, len(i.keys))
	copy(keys, i.keys)
	return keys
}

// Len returns the number of fields.
func (i *Item) Len() int { return len(i.keys) }

// MarshalJSON encodes the Item as a JSON object with fields in insertion
// order.
func (i *Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, key := range i.keys {
		if n > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(i.fields[key])
		if err != nil {
			return nil, fmt.Errorf("encode item field %q: %w", key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns a short description for logging.
func (i *Item) String() string {
	data, err := i.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Item(%d fields)", len(i.keys))
	}
	return "Item" + string(data)
}
