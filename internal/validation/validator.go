// Package validation wraps go-playground/validator with a shared instance and
// readable messages. Struct tags carry the rules:
//
//	type Config struct {
//	    Port int    `validate:"min=1,max=65535"`
//	    URL  string `validate:"required,storeurl"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// StoreSchemes lists the DATABASE_URL schemes a task store can be opened from.
var StoreSchemes = []string{"mongodb", "mongodb+srv", "sqlite", "badger"}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Field names come from koanf tags so messages name the env key users set.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("storeurl", func(fl validator.FieldLevel) bool {
			return IsStoreURL(fl.Field().String())
		})
	})
	return validate
}

// IsStoreURL reports whether raw is a URL with a supported store scheme.
func IsStoreURL(raw string) bool {
	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		return false
	}
	scheme = strings.ToLower(scheme)
	for _, s := range StoreSchemes {
		if scheme == s {
			return true
		}
	}
	return false
}

// ValidateStruct validates s and returns nil or a *ValidationError listing
// every failing field.
func ValidateStruct(s interface{}) *ValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	ve := NewValidationError()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.AddError("unknown", "unknown", err.Error(), nil)
		return ve
	}

	for _, fe := range fieldErrs {
		ve.Errors = append(ve.Errors, FieldError{
			Field:     fe.Field(),
			Namespace: fe.Namespace(),
			Tag:       fe.Tag(),
			Param:     fe.Param(),
			Message:   translateError(fe),
			Value:     fe.Value(),
		})
	}
	return ve
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"storeurl": "%s must be a mongodb://, mongodb+srv://, sqlite:// or badger:// URL",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"gt":    "%s must be greater than %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
