// Package validate checks request structs against their `validate` tags
// and reports the first failure as an apperr validation error named by the
// field's JSON key.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/go-playground/validator/v10"
)

var v = newValidator()

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

// Struct validates s. Fields are checked in declaration order, so the
// first field listed wins when several are wrong.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	return apperr.Invalid("%s", message(fields[0]))
}

var layoutNames = strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD")

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid", "uuid4":
		return fmt.Sprintf("invalid %s: %q", field, fe.Value())
	case "datetime":
		return field + " must be " + layoutNames.Replace(param)
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		if param == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "gt":
		if param == "0" {
			return field + " must be greater than zero"
		}
		return fmt.Sprintf("%s must be greater than %s", field, param)
	}
	return field + " is invalid"
}
