// Package envelope extracts record lists from admin API responses.
// Endpoints deliver lists either bare or wrapped into an
// envelope object.
package envelope

import (
	"bytes"
	"encoding/json"
	"reflect"
)

const (
	KEY_RESULTS = "results"
	KEY_DATA    = "data"
)

// Unwrap extracts the list of items from a decoded payload.
// A payload which already is a list is returned unchanged,
// otherwise the fields results and data are tried in this order.
// All other shapes deliver an empty list.
func Unwrap(raw any) []any {
	return UnwrapWith(raw)
}

// UnwrapWith works like Unwrap, but tries additional envelope
// keys after results and data.
func UnwrapWith(raw any, keys ...string) []any {
	if l, ok := asList(raw); ok {
		return l
	}
	m, ok := raw.(map[string]any)
	if !ok {
		if r, ok := raw.(Record); ok {
			m = r
		} else {
			return []any{}
		}
	}
	for _, k := range append([]string{KEY_RESULTS, KEY_DATA}, keys...) {
		if l, ok := asList(m[k]); ok {
			return l
		}
	}
	return []any{}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, false
	case []any:
		return l, l != nil
	case []Record:
		r := make([]any, len(l))
		for i, e := range l {
			r[i] = e
		}
		return r, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		// raw bytes are no item list
		return nil, false
	}
	r := make([]any, rv.Len())
	for i := range r {
		r[i] = rv.Index(i).Interface()
	}
	return r, true
}

// Decode decodes a json response body.
// An empty body decodes to nil.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Records selects the record-shaped items of a list.
// The order is kept.
func Records(items []any) []Record {
	r := []Record{}
	for _, e := range items {
		switch m := e.(type) {
		case map[string]any:
			r = append(r, Record(m))
		case Record:
			r = append(r, m)
		}
	}
	return r
}
