// Package filter narrows fetched record lists on the client side.
package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/utils"
)

type Record = envelope.Record

type StatusMode string

const (
	STATUS_ALL      StatusMode = "all"
	STATUS_ACTIVE   StatusMode = "active"
	STATUS_INACTIVE StatusMode = "inactive"
)

func ParseStatusMode(s string) (StatusMode, error) {
	switch m := StatusMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", STATUS_ALL:
		return STATUS_ALL, nil
	case STATUS_ACTIVE, STATUS_INACTIVE:
		return m, nil
	}
	return "", fmt.Errorf("invalid status filter %q (use all, active or inactive)", s)
}

// Search keeps the records where at least one of the given string
// fields contains the term, ignoring case.
func Search(list []Record, term string, fields ...string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	r := []Record{}
	for _, e := range list {
		if matches(e, term, fields) {
			r = append(r, e)
		}
	}
	return r
}

func matches(e Record, term string, fields []string) bool {
	for _, f := range fields {
		s, ok := e[f].(string)
		if ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Status keeps the records matching the mode for a boolean
// status field. Records without the field count as inactive.
func Status(list []Record, field string, mode StatusMode) []Record {
	if mode == STATUS_ALL || mode == "" || field == "" {
		return list
	}
	return utils.FilterSlice(list, func(e Record) bool {
		return e.GetBool(field) == (mode == STATUS_ACTIVE)
	})
}

// Count counts the active records.
func Count(list []Record, field string) int {
	return len(Status(list, field, STATUS_ACTIVE))
}

// Sort orders a copy of the list by a field. Numbers are ordered
// numerically and precede all other values, which are ordered by
// their display form.
func Sort(list []Record, field string) []Record {
	r := slices.Clone(list)
	slices.SortStableFunc(r, func(a, b Record) int {
		fa, oka := a[field].(float64)
		fb, okb := b[field].(float64)
		switch {
		case oka && okb:
			return cmp.Compare(fa, fb)
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(utils.Stringify(a[field]), utils.Stringify(b[field]))
	})
	return r
}

// Query combines the screen filters.
type Query struct {
	Term        string
	Fields      []string
	StatusField string
	Status      StatusMode
}

func (q Query) Apply(list []Record) []Record {
	return Status(Search(list, q.Term, q.Fields...), q.StatusField, q.Status)
}
