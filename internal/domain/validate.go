package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type patch interface {
	empty() bool
}

func describe(fieldErr validator.FieldError) string {
	isText := fieldErr.Kind() == reflect.String
	switch fieldErr.Tag() {
	case "required":
		return "missing required field"
	case "min":
		if isText {
			return fmt.Sprintf("must be at least %s characters long", fieldErr.Param())
		}
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		if isText {
			return fmt.Sprintf("must be at most %s characters long", fieldErr.Param())
		}
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %q validation", fieldErr.Tag())
	}
}

// Validate checks a request payload and returns one "<field>: <message>"
// entry per problem found. Patches must set at least one field.
func Validate(value any) (errs []string) {
	if p, ok := value.(patch); ok && p.empty() {
		errs = append(errs, "body: must contain at least one field to update")
	}
	err := validate.Struct(value)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs = append(errs, err.Error())
		return
	}
	for _, fieldErr := range fieldErrs {
		errs = append(errs, fmt.Sprintf("%s: %s", fieldErr.Field(), describe(fieldErr)))
	}
	return
}
