// Package validation holds the process-wide validator instance and maps its
// failures onto VALIDATION_ERROR details keyed by json field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/vitalixplus/storefront/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// trimmed_min counts characters after surrounding whitespace is removed.
	_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		var min int
		if _, err := fmt.Sscanf(fl.Param(), "%d", &min); err != nil {
			return false
		}
		return len([]rune(strings.TrimSpace(fl.Field().String()))) >= min
	})
	return v
}

// Struct validates dest and returns a typed validation error on failure.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return FormatErrors(err)
	}
	return nil
}

func FormatErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = message(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "trimmed_min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}
