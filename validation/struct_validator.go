package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/voicenotes/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields under their persisted (json) names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate validates a struct using its `validate` tags and returns an
// errors.Validation AppError listing every failing field.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, e := range validationErrors {
		v.AddError(e.Field(), formatValidationError(e))
	}
	return v.Validate()
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	case "excludesall":
		return "must not contain any of: " + e.Param()
	default:
		return "is invalid"
	}
}
