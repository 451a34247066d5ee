package sanitize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputLength is the maximum accepted input length in characters.
const DefaultMaxInputLength = 50000

// Validation messages.
const (
	MsgNotString = "input must be a string"
	MsgEmpty     = "input cannot be empty"
)

// ValidationResult reports whether input may be processed.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Message joins the validation errors with "; ".
func (r ValidationResult) Message() string {
	return strings.Join(r.Errors, "; ")
}

// Validate checks that text is non-blank and at most maxLen characters.
// A maxLen <= 0 uses DefaultMaxInputLength.
func Validate(text string, maxLen int) ValidationResult {
	if maxLen <= 0 {
		maxLen = DefaultMaxInputLength
	}

	var errs []string
	if strings.TrimSpace(text) == "" {
		errs = append(errs, MsgEmpty)
	}
	if utf8.RuneCountInString(text) > maxLen {
		errs = append(errs, TooLongMessage(maxLen))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateAny is Validate for values of unknown type, such as decoded JSON.
// Anything other than a string fails with MsgNotString.
func ValidateAny(v any, maxLen int) ValidationResult {
	s, ok := v.(string)
	if !ok {
		return ValidationResult{Errors: []string{MsgNotString}}
	}
	return Validate(s, maxLen)
}

// TooLongMessage is the validation message for input over maxLen characters.
func TooLongMessage(maxLen int) string {
	return fmt.Sprintf("input exceeds maximum length of %d characters", maxLen)
}
