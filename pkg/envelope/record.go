package envelope

import (
	"github.com/mandelsoft/admin/pkg/utils"
)

const FIELD_ID = "id"

// Record is a single row of domain data.
type Record map[string]interface{}

func (r Record) Get(field string) interface{} {
	return r[field]
}

// GetString provides the display form of a scalar field.
func (r Record) GetString(field string) string {
	return utils.Stringify(r[field])
}

func (r Record) GetBool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

func (r Record) GetInt(field string) int64 {
	switch v := r[field].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func (r Record) GetId() string {
	return r.GetString(FIELD_ID)
}

func (r Record) SetId(id string) {
	r[FIELD_ID] = id
}

// Copy provides a shallow copy.
func (r Record) Copy() Record {
	n := Record{}
	for k, v := range r {
		n[k] = v
	}
	return n
}

// List is the form records are printed in by the command line tools.
type List struct {
	Items []Record `json:"items"`
}
