// Package forms converts entity manifests into request bodies.
// Forms are validated locally so that obvious mistakes are reported
// before any request is sent. Failures are reported with the same
// shape the server uses for its validation errors.
package forms

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
)

// Form is the editable part of a record.
type Form interface {
	// Body provides the request body, only called for valid forms.
	Body() map[string]any
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// New provides an empty form with its defaults for the given kind.
func New(kind string) (Form, error) {
	switch kind {
	case admin.KIND_USERS:
		return &User{IsActive: true}, nil
	case admin.KIND_PLANS:
		return NewPlan(), nil
	case admin.KIND_PRODUCTS:
		return &Product{IsActive: true}, nil
	case admin.KIND_STYLES, admin.KIND_STRATEGIES:
		return &Style{}, nil
	case admin.KIND_CATEGORIES:
		return &Category{IsActive: true}, nil
	}
	return nil, fmt.Errorf("%w %q", admin.ErrUnknownKind, kind)
}

// Fill decodes the fields of a manifest into a form. Unknown fields
// are reported as field errors.
func Fill(f Form, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	err = dec.Decode(f)
	if err != nil {
		errs := apierror.FieldErrors{}
		var terr *json.UnmarshalTypeError
		switch {
		case asTypeError(err, &terr):
			errs.Add(terr.Field, fmt.Sprintf("must be of type %s", terr.Type))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			errs.Add(name, "unknown field")
		default:
			return err
		}
		return errs
	}
	return nil
}

func asTypeError(err error, target **json.UnmarshalTypeError) bool {
	if t, ok := err.(*json.UnmarshalTypeError); ok {
		*target = t
		return true
	}
	return false
}

// Validate checks a form and provides apierror.FieldErrors
// for invalid fields.
func Validate(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	errs := apierror.FieldErrors{}
	for _, e := range verrs {
		errs.Add(e.Field(), describe(e))
	}
	return errs
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(e.Param(), " ", ", "))
	}
	return fmt.Sprintf("Invalid value (%s).", e.Tag())
}

// Body fills, validates and serializes the fields of a manifest
// for the given kind.
func Body(kind string, fields map[string]any) (map[string]any, error) {
	f, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := Fill(f, fields); err != nil {
		return nil, err
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f.Body(), nil
}
