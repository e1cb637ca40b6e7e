package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"github.com/nurpe/rental-desk/internal/model"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	registerNullTypes(v)

	return &Validator{validate: v}
}

// Struct validates s and flattens the failures into one FieldErrors value.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	result := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return result
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) Message() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", e.Field, e.Rule, e.Param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	}
	return fmt.Sprintf("%s is invalid (%s)", e.Field, e.Rule)
}

type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Message())
	}
	return strings.Join(parts, "; ")
}

func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int64); ok && val.Valid {
			return val.Int64
		}
		return nil
	}, null.Int64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Float64); ok && val.Valid {
			return val.Float64
		}
		return nil
	}, null.Float64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(model.Date); ok && val.Valid() {
			return val.Time
		}
		return nil
	}, model.Date{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(model.Decimal); ok {
			return float64(val)
		}
		return nil
	}, model.Decimal(0))
}
