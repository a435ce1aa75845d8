package models

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
	// Report fields by their JSON name so error maps line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct-tag validation and flattens the result into the
// field -> message map used by APIResponse.Errors.
func validateStruct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		key := fieldKey(fe)
		if _, exists := errs[key]; exists {
			continue
		}
		errs[key] = fieldMessage(fe)
	}
	return errs
}

// fieldKey turns "CreateProfileRequest.links[1]" into "links[1]".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "email":
		return "Email is invalid"
	case "http_url":
		return "Must be a valid http(s) URL"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %q validation", fe.Tag())
	}
}
