package resource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field extracts a single text value from a record. An empty result means the field is
// missing on that record.
type Field[T any] func(T) string

// Column is one column of a tabular export.
type Column[T any] struct {
	Header string
	Value  Field[T]
}

// Schema describes one resource kind: how it is named, searched, filtered, identified,
// validated, exported and summarised.
type Schema[T any] struct {
	// Name is both the collection key of the fallback snapshot and the REST path
	// segment, e.g. "students".
	Name  string
	Label string

	// Search returns the designated searchable text values of a record.
	Search func(T) []string
	// Filters maps structured filter names to exact-match accessors.
	Filters map[string]Field[T]
	// Key yields the semantic identity used to reconcile offline records with the
	// ones the backend assigns ids to. Nil disables key reconciliation.
	Key Field[T]

	// Prepare fills defaults before validation.
	Prepare func(T) T
	// PrepareCreate runs after Prepare on new records only. It overrides fields callers
	// may not choose, such as a workflow status.
	PrepareCreate func(T) T
	// Check adds rules struct tags cannot express. It returns field messages.
	Check func(T) map[string]string

	Columns   []Column[T]
	Summarize func([]T) interface{}
}

func (s Schema[T]) prepare(record T) T {
	if s.Prepare == nil {
		return record
	}
	return s.Prepare(record)
}

func (s Schema[T]) prepareCreate(record T) T {
	record = s.prepare(record)
	if s.PrepareCreate == nil {
		return record
	}
	return s.PrepareCreate(record)
}

func (s Schema[T]) key(record T) string {
	if s.Key == nil {
		return ""
	}
	return s.Key(record)
}

// FilterNames lists the structured filters the schema supports.
func (s Schema[T]) FilterNames() []string {
	names := make([]string, 0, len(s.Filters))
	for name := range s.Filters {
		names = append(names, name)
	}
	return names
}

// Validate runs struct tag validation followed by the schema's own checks.
func (s Schema[T]) Validate(v *validator.Validate, record T) error {
	fields := map[string]string{}
	if v != nil {
		if err := v.Struct(record); err != nil {
			var verrs validator.ValidationErrors
			if !asValidationErrors(err, &verrs) {
				return &ValidationError{Resource: s.Name, Fields: map[string]string{"_": err.Error()}}
			}
			for _, fe := range verrs {
				fields[fieldPath(fe)] = describe(fe)
			}
		}
	}
	if s.Check != nil {
		for field, msg := range s.Check(record) {
			if _, exists := fields[field]; !exists {
				fields[field] = msg
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Resource: s.Name, Fields: fields}
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

// fieldPath strips the top-level struct name from the namespace so nested fields read
// as "studentInfo.firstName".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
