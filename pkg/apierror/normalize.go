// Package apierror converts failed admin API calls into display messages.
package apierror

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mandelsoft/admin/pkg/utils"
)

const (
	MSG_UNAUTHORIZED = "Unauthorized. Please login again."
	MSG_FORBIDDEN    = "Forbidden. You do not have permission to perform this action."
	MSG_NETWORK      = "Network error. Please check your connection."
	MSG_FAILED       = "request failed"
)

const (
	FIELD_DETAIL  = "detail"
	FIELD_MESSAGE = "message"
	FIELD_ERROR   = "error"
)

// Normalize provides a single display message for an error payload.
// The payload is either a string, a field map or a Fields list
// as provided by DecodePayload. A status of 0 means unknown.
func Normalize(payload any, status int) string {
	if s, ok := payload.(string); ok {
		return s
	}
	switch status {
	case http.StatusUnauthorized:
		return MSG_UNAUTHORIZED
	case http.StatusForbidden:
		return MSG_FORBIDDEN
	}

	fields := asFields(payload)
	if v, ok := fields.Lookup(FIELD_DETAIL); ok && present(display(v)) {
		return display(v)
	}
	if v, ok := fields.Lookup(FIELD_MESSAGE); ok && present(display(v)) {
		return display(v)
	}
	if v, ok := fields.Lookup(FIELD_ERROR); ok {
		if s, ok := v.(string); ok && present(s) {
			return s
		}
	}

	var msgs []string
	for _, f := range fields {
		if l, ok := stringList(f.Value); ok {
			msgs = append(msgs, fmt.Sprintf("%s: %s", f.Name, strings.Join(l, ", ")))
		}
	}
	if len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	if status != 0 {
		return fmt.Sprintf("%s with status %d", MSG_FAILED, status)
	}
	return MSG_FAILED
}

func asFields(payload any) Fields {
	switch p := payload.(type) {
	case Fields:
		return p
	case FieldErrors:
		return p.Fields()
	case map[string][]string:
		return FieldErrors(p).Fields()
	case map[string]any:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		r := make(Fields, len(keys))
		for i, k := range keys {
			r[i] = Field{k, p[k]}
		}
		return r
	}
	return nil
}

func stringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		r := make([]string, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			r[i] = s
		}
		return r, true
	}
	return nil, false
}

// present reports whether a message has visible content.
// Null, empty or blank values fall through to the next rule.
func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func display(v any) string {
	if l, ok := stringList(v); ok {
		return strings.Join(l, ", ")
	}
	return utils.Stringify(v)
}
