// Package apperror turns validator failures into user-facing field messages.
package apperror

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
	// Report fields by their JSON names so messages match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError lists field problems in the order the validator found them.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.order))
	for _, field := range e.order {
		msgs = append(msgs, e.Fields[field])
	}
	return strings.Join(msgs, "; ")
}

// First returns the first field message.
func (e *ValidationError) First() string {
	if len(e.order) == 0 {
		return ""
	}
	return e.Fields[e.order[0]]
}

// Has reports whether the named field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Validate checks v against its `validate` struct tags. It returns nil or a
// *ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out.Fields[field]; seen {
			continue
		}
		out.Fields[field] = message(field, fe.Tag(), fe.Param())
		out.order = append(out.order, field)
	}
	return out
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters)", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
