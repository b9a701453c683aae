package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their query parameter name when they have one.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate runs the struct validation tags on value
func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(err)
	}

	return value, nil
}

// ValidationErrorToString flattens validator errors into one readable line per field.
func ValidationErrorToString(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() == "" {
			msgs = append(msgs, fmt.Sprintf("invalid %s %q: rule '%s'", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s %q: rule '%s' expected '%s'", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
