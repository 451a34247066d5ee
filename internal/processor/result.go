package processor

import "strings"

// ErrMsgUnexpected is reported when processing fails for a reason other than
// invalid input. Details are only logged.
const ErrMsgUnexpected = "an unexpected error occurred while processing the ticket"

// Fields maps field keys to extracted values. Keys without a value map to "".
type Fields map[string]string

// Missing returns the number of keys in keys whose value is blank.
func (f Fields) Missing(keys []string) int {
	n := 0
	for _, k := range keys {
		if strings.TrimSpace(f[k]) == "" {
			n++
		}
	}
	return n
}

// Result is the outcome of processing one ticket. It is always returned as a
// value; processors never panic or return errors past their boundary.
type Result struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error,omitempty"`
	Errors          []string `json:"errors,omitempty"`
	ExtractedFields Fields   `json:"extractedFields,omitempty"`
	FormattedText   string   `json:"formattedText,omitempty"`

	// ReasonCode tells how an escalation reason was decided (see patterns.ReasonCode*).
	ReasonCode string `json:"reasonCode,omitempty"`
}

func validationFailure(errs []string) Result {
	return Result{
		Success: false,
		Error:   strings.Join(errs, "; "),
		Errors:  errs,
	}
}

func unexpectedFailure() Result {
	return Result{Success: false, Error: ErrMsgUnexpected}
}

func newFields(keys []string) Fields {
	f := make(Fields, len(keys))
	for _, k := range keys {
		f[k] = ""
	}
	return f
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

