// Package form validates submitted forms with struct tags and converts the
// failures into field errors the templates can show next to each input.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks v against its `validate` tags. Failures come back as a
// *domain.ValidationError keyed by the `form` tag of each field.
func Validate(op string, v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := ve.Fields[fe.Field()]; seen {
			continue
		}
		ve.Fields[fe.Field()] = message(fe)
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "oneof":
		return "Select a valid choice."
	case "url":
		return "Enter a valid URL."
	default:
		return "Enter a valid value."
	}
}

// Decode copies submitted values into the string and bool fields of the
// struct dst points to, matched by `form` tag. A bool is true when the
// field is present with any value other than "", "0", "false" or "off".
func Decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return domain.Invalid("form.decode", "Invalid form data")
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("form: Decode needs a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}

		value := r.Form.Get(name)

		switch fv := rv.Field(i); fv.Kind() {
		case reflect.String:
			fv.SetString(value)
		case reflect.Bool:
			switch strings.ToLower(value) {
			case "", "0", "false", "off":
				fv.SetBool(false)
			default:
				fv.SetBool(true)
			}
		}
	}
	return nil
}
