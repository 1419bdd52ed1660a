package user

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var fieldMessages = map[string]string{
	"name":  "Name cannot be blank",
	"email": "Email format is invalid",
	"age":   "Age cannot be negative",
}

// validate is configured once and only read afterwards; validator.Validate
// caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonFieldName)

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("emaildomain", emailHasDottedDomain)

	return v
}

// Validate checks every field of the request and reports all violations at
// once. An empty result means the request is valid.
func Validate(req Request) FieldErrors {
	out := FieldErrors{}

	err := validate.Struct(req)
	if err == nil {
		return out
	}

	// Struct only returns ValidationErrors for a non-nil struct value
	var validationErrors validator.ValidationErrors
	errors.As(err, &validationErrors)

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		if _, seen := out[field]; !seen {
			out[field] = fieldMessages[field]
		}
	}

	return out
}

func emailHasDottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}

	domain := s[at+1:]
	dot := strings.Index(domain, ".")

	return dot > 0 && dot < len(domain)-1
}

func jsonFieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
