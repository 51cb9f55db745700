package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/modern-go/reflect2"
)

func OptionalDefaulted[T any](def T, args ...T) T {
	var _nil T
	for _, e := range args {
		if !reflect.DeepEqual(e, _nil) {
			return e
		}
	}
	return def
}

func Pointer[T any](t T) *T {
	return &t
}

// HashData provides a canonical hash for arbitrary json serializable
// data. Maps are hashed independent of their key order.
func HashData(d interface{}) (string, error) {
	if reflect2.IsNil(d) {
		return "", nil
	}
	var data []byte
	switch b := d.(type) {
	case []byte:
		data = b
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(d)
		if err != nil {
			return "", err
		}
		data, err = jcs.Transform(data)
		if err != nil {
			return "", err
		}
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

// HashFields hashes the given fields of a record-like map.
// Missing fields are hashed as absent, not as null.
func HashFields(m map[string]interface{}, fields []string) (string, error) {
	sub := map[string]interface{}{}
	for _, f := range fields {
		if v, ok := m[f]; ok {
			sub[f] = v
		}
	}
	return HashData(sub)
}

func TransformSlice[E any, A ~[]E, T any](in A, m func(E) T) []T {
	r := make([]T, len(in))
	for i, v := range in {
		r[i] = m(v)
	}
	return r
}

// FilterSlice keeps the matching elements. The result is never nil.
func FilterSlice[E any, A ~[]E](in A, f func(E) bool) A {
	r := A{}
	for _, v := range in {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

// Stringify provides a display representation for scalar json values.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		data, _ := json.Marshal(t)
		return string(data)
	case json.Number:
		return t.String()
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
}
