// Package schema implements the declarative per-field constraint checker
// every resource module validates request bodies against. Schemas are pure
// data: validating the same input against the same schema is deterministic
// and side-effect-free.
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"unicode/utf8"
)

// Type is the expected value kind for a field.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeObject Type = "object"
)

// Field declares the constraint set for one input field. The zero value of
// every constraint means "unconstrained"; length bounds are inclusive and
// counted in runes.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	MinLen      int
	MaxLen      int
	Min         *float64
	Max         *float64
	Pattern     *regexp.Regexp
	PatternHint string
	Enum        []string
	EqualsField string
	Fields      []Field // nested schema, only for TypeObject
}

// Schema is an ordered field declaration list.
type Schema struct {
	Fields []Field
}

// Result carries the outcome of a validation pass.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks input against the schema and collects every violation in
// a single pass. Declared fields are evaluated in declaration order,
// unknown input keys in sorted order, so two runs over the same input
// always produce the same error list. The input is never mutated.
func (s Schema) Validate(input map[string]interface{}) Result {
	errs := validateObject(s.Fields, input, "")
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func validateObject(fields []Field, input map[string]interface{}, scope string) []string {
	var errs []string
	declared := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		declared[f.Name] = struct{}{}
		value, present := input[f.Name]
		label := scope + f.Name

		if !present {
			if f.Required {
				errs = append(errs, fmt.Sprintf("%s is required", label))
			}
			continue
		}
		errs = append(errs, validateValue(f, value, label, input)...)
	}

	unknown := make([]string, 0)
	for key := range input {
		if _, ok := declared[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, fmt.Sprintf("%s is not an allowed field", scope+key))
	}
	return errs
}

func validateValue(f Field, value interface{}, label string, siblings map[string]interface{}) []string {
	var errs []string

	switch f.Type {
	case TypeString, "":
		str, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s must be a string", label)}
		}
		// an empty present value is a value, not an absence: everything
		// below MinLen still applies to it
		if str == "" && f.Required {
			errs = append(errs, fmt.Sprintf("%s must not be empty", label))
			break
		}
		length := utf8.RuneCountInString(str)
		if f.MinLen > 0 && length < f.MinLen {
			errs = append(errs, fmt.Sprintf("%s must be at least %d characters", label, f.MinLen))
		}
		if f.MaxLen > 0 && length > f.MaxLen {
			errs = append(errs, fmt.Sprintf("%s must be at most %d characters", label, f.MaxLen))
		}
		if f.Pattern != nil && !f.Pattern.MatchString(str) {
			hint := f.PatternHint
			if hint == "" {
				hint = fmt.Sprintf("must match %s", f.Pattern.String())
			}
			errs = append(errs, fmt.Sprintf("%s %s", label, hint))
		}
		if len(f.Enum) > 0 && !contains(f.Enum, str) {
			errs = append(errs, fmt.Sprintf("%s must be one of %v", label, f.Enum))
		}

	case TypeInt:
		n, ok := asInt(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be an integer", label)}
		}
		errs = append(errs, checkBounds(f, float64(n), label)...)

	case TypeFloat:
		n, ok := asFloat(value)
		if !ok {
			return []string{fmt.Sprintf("%s must be a number", label)}
		}
		errs = append(errs, checkBounds(f, n, label)...)

	case TypeBool:
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("%s must be a boolean", label)}
		}

	case TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s must be an object", label)}
		}
		errs = append(errs, validateObject(f.Fields, obj, label+".")...)
	}

	if f.EqualsField != "" {
		if !reflect.DeepEqual(value, siblings[f.EqualsField]) {
			errs = append(errs, fmt.Sprintf("%s must equal %s", label, f.EqualsField))
		}
	}
	return errs
}

func checkBounds(f Field, n float64, label string) []string {
	var errs []string
	if f.Min != nil && n < *f.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %v", label, *f.Min))
	}
	if f.Max != nil && n > *f.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %v", label, *f.Max))
	}
	return errs
}

func asInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// Bound is a convenience for declaring numeric constraints inline.
func Bound(v float64) *float64 {
	return &v
}
