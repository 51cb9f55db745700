package apierror

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type Field struct {
	Name  string
	Value any
}

// Fields is a json object keeping the key order of the
// server response.
type Fields []Field

// Lookup provides the value of a field. For duplicate keys
// the last one wins, like for Map and encoding/json.
func (f Fields) Lookup(name string) (any, bool) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i].Name == name {
			return f[i].Value, true
		}
	}
	return nil, false
}

func (f Fields) Map() map[string]any {
	m := map[string]any{}
	for _, e := range f {
		m[e.Name] = e.Value
	}
	return m
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodePayload decodes an error body. Objects are decoded
// to Fields, everything else is a plain json value. A body which is
// no json at all is returned as string.
func DecodePayload(data []byte) any {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] != '{' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return string(data)
		}
		return v
	}
	f, err := decodeFields(data)
	if err != nil {
		return string(data)
	}
	return f
}

func decodeFields(data []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("json object expected")
	}
	r := Fields{}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("field name expected")
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		r = append(r, Field{name, v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing data")
	}
	return r, nil
}

// FieldErrors describes validation failures per field.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Fields provides the failures ordered by field name.
func (e FieldErrors) Fields() Fields {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := make(Fields, len(keys))
	for i, k := range keys {
		r[i] = Field{k, e[k]}
	}
	return r
}

func (e FieldErrors) Error() string {
	return Normalize(e, 0)
}
