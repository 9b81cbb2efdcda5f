package schema

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func contactSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "name", Type: TypeString, Required: true, MinLen: 3, MaxLen: 10},
		{Name: "email", Type: TypeString, Required: true, Pattern: regexp.MustCompile(`^[^@\s]+@[^@\s]+$`), PatternHint: "must be an email address"},
		{Name: "role", Type: TypeString, Enum: []string{"admin", "teacher"}},
		{Name: "age", Type: TypeInt, Min: Bound(1), Max: Bound(150)},
		{Name: "emailConfirm", Type: TypeString, EqualsField: "email"},
	}}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	s := contactSchema()

	result := s.Validate(map[string]interface{}{})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	want := []string{"name is required", "email is required"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDeterminism(t *testing.T) {
	s := contactSchema()
	input := map[string]interface{}{
		"name":    "ab",
		"email":   "not-an-email",
		"role":    "student",
		"age":     float64(200),
		"unknown": "x",
		"another": "y",
	}

	first := s.Validate(input)
	second := s.Validate(input)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two passes over the same input differ (-first +second):\n%s", diff)
	}
	if first.Valid {
		t.Fatal("expected invalid result")
	}
	// one message per violated constraint
	if len(first.Errors) != 6 {
		t.Fatalf("expected 6 violations, got %d: %v", len(first.Errors), first.Errors)
	}
}

func TestValidateEmptyStringVsMissing(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "name", Type: TypeString, Required: true}}}

	missing := s.Validate(map[string]interface{}{})
	if got, want := missing.Errors, []string{"name is required"}; !cmp.Equal(got, want) {
		t.Fatalf("missing field: got %v, want %v", got, want)
	}

	empty := s.Validate(map[string]interface{}{"name": ""})
	if got, want := empty.Errors, []string{"name must not be empty"}; !cmp.Equal(got, want) {
		t.Fatalf("empty field: got %v, want %v", got, want)
	}
}

func TestValidateLengthBoundsInclusive(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "name", Type: TypeString, Required: true, MinLen: 3, MaxLen: 5}}}

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"below_min", "ab", false},
		{"at_min", "abc", true},
		{"at_max", "abcde", true},
		{"above_max", "abcdef", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Validate(map[string]interface{}{"name": tt.value})
			if result.Valid != tt.valid {
				t.Fatalf("value %q: valid=%v, want %v (errors: %v)", tt.value, result.Valid, tt.valid, result.Errors)
			}
		})
	}
}

func TestValidatePatternOnlyWhenPresent(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "phone", Type: TypeString, Pattern: regexp.MustCompile(`^[0-9]+$`), PatternHint: "must be digits"},
	}}

	if result := s.Validate(map[string]interface{}{}); !result.Valid {
		t.Fatalf("absent optional field must not trigger the pattern: %v", result.Errors)
	}
	if result := s.Validate(map[string]interface{}{"phone": "abc"}); result.Valid {
		t.Fatal("pattern violation not reported")
	}
}

func TestValidateEmptyOptionalValueIsStillChecked(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "website", Type: TypeString, Pattern: regexp.MustCompile(`^https?://\S+$`), PatternHint: "must be an http(s) link"},
		{Name: "role", Type: TypeString, Enum: []string{"admin", "teacher"}},
	}}

	result := s.Validate(map[string]interface{}{"website": "", "role": ""})
	if result.Valid {
		t.Fatal("empty present values must not bypass their constraints")
	}
	want := []string{
		"website must be an http(s) link",
		"role must be one of [admin teacher]",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCrossFieldEquality(t *testing.T) {
	s := contactSchema()
	result := s.Validate(map[string]interface{}{
		"name":         "alice",
		"email":        "a@b.c",
		"emailConfirm": "other@b.c",
	})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if got := result.Errors[0]; got != "emailConfirm must equal email" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestValidateNestedObject(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "guardian", Type: TypeObject, Required: true, Fields: []Field{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "phone", Type: TypeString, MinLen: 6},
		}},
	}}

	result := s.Validate(map[string]interface{}{
		"guardian": map[string]interface{}{"phone": "123", "extra": true},
	})
	want := []string{
		"guardian.name is required",
		"guardian.phone must be at least 6 characters",
		"guardian.extra is not an allowed field",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("nested errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateUnknownFieldsSorted(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "name", Type: TypeString}}}
	result := s.Validate(map[string]interface{}{"zeta": 1, "alpha": 2})
	want := []string{"alpha is not an allowed field", "zeta is not an allowed field"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("unknown field order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	s := contactSchema()
	input := map[string]interface{}{"name": "alice", "email": "a@b.c"}
	before := map[string]interface{}{"name": "alice", "email": "a@b.c"}
	_ = s.Validate(input)
	if diff := cmp.Diff(before, input); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestNormalizeCoercions(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "roll", Type: TypeInt},
		{Name: "score", Type: TypeFloat},
		{Name: "active", Type: TypeBool},
		{Name: "name", Type: TypeString},
	}}

	input := map[string]interface{}{
		"roll":   "42",
		"score":  "3.5",
		"active": "true",
		"name":   "alice",
	}
	got := s.Normalize(input)

	want := map[string]interface{}{
		"roll":   int64(42),
		"score":  3.5,
		"active": true,
		"name":   "alice",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
	if _, ok := input["roll"].(string); !ok {
		t.Fatal("Normalize mutated its input")
	}
}

func TestNormalizeWholeJSONNumbers(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "roll", Type: TypeInt}}}
	got := s.Normalize(map[string]interface{}{"roll": float64(7)})
	if got["roll"] != int64(7) {
		t.Fatalf("expected int64(7), got %T %v", got["roll"], got["roll"])
	}
}

func TestNormalizeLeavesUnparseableValues(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "roll", Type: TypeInt}}}
	got := s.Normalize(map[string]interface{}{"roll": "not-a-number"})
	if got["roll"] != "not-a-number" {
		t.Fatalf("unparseable value should pass through, got %v", got["roll"])
	}
	if result := s.Validate(got); result.Valid || !strings.Contains(result.Errors[0], "roll") {
		t.Fatalf("validator should flag the leftover: %v", result.Errors)
	}
}
