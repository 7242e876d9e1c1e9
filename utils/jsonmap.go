package utils

import (
	"bytes"
	"encoding/json"
)

// JSONMap is a JSON object that marshals its keys in insertion order.
// encoding/json sorts map keys alphabetically; protocol documents that list
// per-language blocks must keep the application's declared language order, so
// they are built with JSONMap instead of a plain map.
type JSONMap struct {
	keys   []string
	values map[string]interface{}
}

func NewJSONMap() *JSONMap {
	return &JSONMap{
		values: map[string]interface{}{},
	}
}

func (m *JSONMap) Set(key string, value interface{}) *JSONMap {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *JSONMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *JSONMap) Len() int {
	return len(m.keys)
}

func (m *JSONMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *JSONMap) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
