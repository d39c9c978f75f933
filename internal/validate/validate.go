package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// OrNil returns nil when no field failed so callers can return it as error.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Validator wraps go-playground/validator and reports JSON field names.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. Failures come back as FieldErrors.
func (v *Validator) Struct(s any) FieldErrors {
	fe := FieldErrors{}
	err := v.v.Struct(s)
	if err == nil {
		return fe
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("non_field_errors", err.Error())
		return fe
	}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. Must be one of: %s.", e.Param())
	default:
		return "Invalid value."
	}
}
