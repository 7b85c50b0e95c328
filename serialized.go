package formstate

import (
	"bytes"
	"encoding/json"
)

// Serialized is the canonical on-the-wire form of storage: an insertion
// ordered mapping from storage key to plain record. A nil *Serialized stands
// for "no content" and every method accepts it.
type Serialized struct {
	keys   []string
	values map[string]Record
}

// NewSerialized returns an empty mapping.
func NewSerialized() *Serialized {
	return &Serialized{values: map[string]Record{}}
}

// Set stores rec under key. New keys are appended; existing keys keep their
// position.
func (m *Serialized) Set(key string, rec Record) {
	if m.values == nil {
		m.values = map[string]Record{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = rec
}

// Len returns the number of entries.
func (m *Serialized) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Serialized) Keys() []string {
	if m == nil || len(m.keys) == 0 {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the record stored under key.
func (m *Serialized) Get(key string) (Record, bool) {
	if m == nil {
		return nil, false
	}
	rec, ok := m.values[key]
	return rec, ok
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Serialized) Range(fn func(key string, rec Record) bool) {
	if m == nil || fn == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Clone returns a deep copy that shares no records with m.
func (m *Serialized) Clone() *Serialized {
	if m == nil {
		return nil
	}
	out := &Serialized{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]Record, len(m.values)),
	}
	for key, rec := range m.values {
		out.values[key] = rec.Clone()
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object preserving insertion order.
func (m *Serialized) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := encodeCanonical(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.WriteString(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeCanonical renders value as compact JSON with sorted object keys and no
// HTML escaping, so equal values always produce the same text.
func encodeCanonical(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
