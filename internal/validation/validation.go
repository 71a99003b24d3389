// Package validation narrows untrusted request bodies to the fields each entity
// accepts on creation. The schemas here are maintained by hand and are independent
// of the storage column layout.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	String Kind = iota
	Number
	Integer
	Bool
	StringList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "a string"
	case Number:
		return "a number"
	case Integer:
		return "an integer"
	case Bool:
		return "a boolean"
	case StringList:
		return "a list of strings"
	default:
		return "unknown"
	}
}

// Field describes one accepted input key. Rules is a go-playground/validator tag
// applied to the coerced value.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Rules    string
}

type Schema struct {
	Entity string
	Fields []Field
}

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that was missing or had the wrong shape.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Record holds the narrowed, coerced values keyed by field name. Absent optional
// fields have no key.
type Record map[string]any

func (r Record) String(name string) string {
	value, _ := r[name].(string)
	return value
}

func (r Record) OptString(name string) *string {
	value, ok := r[name].(string)
	if !ok {
		return nil
	}
	return &value
}

func (r Record) OptFloat(name string) *float64 {
	value, ok := r[name].(float64)
	if !ok {
		return nil
	}
	return &value
}

func (r Record) OptInt64(name string) *int64 {
	value, ok := r[name].(int64)
	if !ok {
		return nil
	}
	return &value
}

func (r Record) OptInt(name string) *int {
	value := r.OptInt64(name)
	if value == nil {
		return nil
	}
	v := int(*value)
	return &v
}

func (r Record) OptBool(name string) *bool {
	value, ok := r[name].(bool)
	if !ok {
		return nil
	}
	return &value
}

func (r Record) Strings(name string) []string {
	value, _ := r[name].([]string)
	return value
}

type Validator struct {
	rules *validator.Validate
}

func New() *Validator {
	return &Validator{rules: validator.New(validator.WithRequiredStructEnabled())}
}

// Narrow keeps only the schema's fields from input, coerces each to its kind and
// checks its rules. Keys not in the schema are dropped; null counts as absent.
func (v *Validator) Narrow(schema Schema, input map[string]any) (Record, error) {
	record := Record{}
	var problems []FieldError
	for _, field := range schema.Fields {
		raw, present := input[field.Name]
		if !present || raw == nil {
			if field.Required {
				problems = append(problems, FieldError{Field: field.Name, Reason: "is required"})
			}
			continue
		}
		value, ok := coerce(field.Kind, raw)
		if !ok {
			problems = append(problems, FieldError{Field: field.Name, Reason: "must be " + field.Kind.String()})
			continue
		}
		if text, isText := value.(string); isText && field.Required && strings.TrimSpace(text) == "" {
			problems = append(problems, FieldError{Field: field.Name, Reason: "must not be empty"})
			continue
		}
		if field.Rules != "" {
			if err := v.rules.Var(value, field.Rules); err != nil {
				problems = append(problems, FieldError{Field: field.Name, Reason: describeRule(err)})
				continue
			}
		}
		record[field.Name] = value
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Entity: schema.Entity, Fields: problems}
	}
	return record, nil
}

func coerce(kind Kind, raw any) (any, bool) {
	switch kind {
	case String:
		value, ok := raw.(string)
		return value, ok
	case Number:
		return toFloat(raw)
	case Integer:
		f, ok := toFloat(raw)
		if !ok || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
			return nil, false
		}
		return int64(f), true
	case Bool:
		value, ok := raw.(bool)
		return value, ok
	case StringList:
		items, ok := raw.([]any)
		if !ok {
			if typed, ok := raw.([]string); ok {
				return typed, true
			}
			return nil, false
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			values = append(values, s)
		}
		return values, true
	}
	return nil, false
}

func toFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		return value, true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}

func describeRule(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return "must be a valid " + fe.Tag()
	}
	return err.Error()
}
