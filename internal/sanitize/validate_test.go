package sanitize

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		valid  bool
		errors []string
	}{
		{name: "ok", input: "Name: Jane", maxLen: 100, valid: true},
		{name: "empty", input: "", maxLen: 100, errors: []string{MsgEmpty}},
		{name: "whitespace only", input: " \n\t ", maxLen: 100, errors: []string{MsgEmpty}},
		{
			name:   "too long",
			input:  strings.Repeat("a", 11),
			maxLen: 10,
			errors: []string{"input exceeds maximum length of 10 characters"},
		},
		{name: "exactly max", input: strings.Repeat("a", 10), maxLen: 10, valid: true},
		{name: "max counted in characters", input: strings.Repeat("ü", 10), maxLen: 10, valid: true},
		{name: "zero max uses default", input: strings.Repeat("a", DefaultMaxInputLength), maxLen: 0, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.input, tt.maxLen)
			if got.Valid != tt.valid {
				t.Errorf("Validate().Valid = %v, want %v", got.Valid, tt.valid)
			}
			if !reflect.DeepEqual(got.Errors, tt.errors) {
				t.Errorf("Validate().Errors = %v, want %v", got.Errors, tt.errors)
			}
		})
	}
}

func TestValidateAny(t *testing.T) {
	for _, v := range []any{nil, 42, []byte("Name: Jane"), map[string]string{}} {
		got := ValidateAny(v, 100)
		if got.Valid {
			t.Errorf("ValidateAny(%v) should be invalid", v)
		}
		if got.Message() != MsgNotString {
			t.Errorf("ValidateAny(%v) message = %q, want %q", v, got.Message(), MsgNotString)
		}
	}

	if got := ValidateAny("Name: Jane", 100); !got.Valid {
		t.Errorf("ValidateAny(string) should be valid, got %v", got.Errors)
	}
}

func TestValidationResult_Message(t *testing.T) {
	r := ValidationResult{Errors: []string{"a", "b"}}
	if got := r.Message(); got != "a; b" {
		t.Errorf("Message() = %q, want %q", got, "a; b")
	}
}
