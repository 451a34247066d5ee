package redact

// Finding records one redacted span. The matched text is never kept.
type Finding struct {
	RuleID string `json:"rule_id"`
	Field  string `json:"field,omitempty"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Result is the outcome of redacting one value.
type Result struct {
	Redacted string         `json:"redacted"`
	Findings []Finding      `json:"findings,omitempty"`
	ByRule   map[string]int `json:"by_rule,omitempty"`
}

// HasFindings reports whether anything was redacted.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}
