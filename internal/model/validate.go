package model

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid todo: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "" when it passed.
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

var messages = map[string]map[string]string{
	"title": {
		"required": "A title is required",
		"max":      "Title cannot be more than 30 characters",
	},
	"priority": {
		"required": "A priority is required",
		"priority": "Priority must be Low, Medium or High",
	},
	"status": {
		"required": "A status is required",
		"status":   "Status must be Not Started, In Progress or Completed",
	},
}

// Validate checks the values as they would be submitted at now. The deadline
// must fall on now's calendar date or later.
func (v Values) Validate(now time.Time) error {
	var fields []FieldError

	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := messages[fe.Field()][fe.Tag()]
			if msg == "" {
				msg = "failed " + fe.Tag() + " rule"
			}
			fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
		}
	} else if err != nil {
		return err
	}

	switch {
	case v.Deadline.IsZero():
		fields = append(fields, FieldError{Field: "deadline", Message: "A deadline is required"})
	case Today(v.Deadline.In(now.Location())).Before(Today(now)):
		fields = append(fields, FieldError{Field: "deadline", Message: "Deadline cannot be earlier than today"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
