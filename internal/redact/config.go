package redact

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultReplacement replaces every redacted span.
const DefaultReplacement = "[REDACTED]"

// ErrInvalidRule indicates a rule that cannot be compiled.
var ErrInvalidRule = errors.New("invalid redaction rule")

// Config configures a Redactor.
type Config struct {
	// Enabled controls whether values are redacted at all.
	Enabled bool

	// Rules are applied in order; overlapping matches are merged.
	Rules []Rule

	// Replacement substitutes each redacted span (default "[REDACTED]").
	Replacement string

	// AllowList holds patterns for matches that must be kept.
	AllowList []string

	// Gitleaks additionally runs the gitleaks default rule set.
	Gitleaks bool
}

// Rule detects one kind of sensitive value.
type Rule struct {
	ID          string
	Description string

	// Pattern is an RE2 expression. When it has a capture group only group 1
	// is replaced, so "Password: x" keeps its label.
	Pattern string

	// Keywords, when set, must appear (case-insensitively) in the value.
	Keywords []string

	// Luhn requires the digits of a match to pass the Luhn checksum.
	Luhn bool
}

type compiledRule struct {
	Rule
	pattern  *regexp.Regexp
	keywords []*regexp.Regexp
}

// DefaultConfig returns an enabled configuration with DefaultRules.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Rules:       DefaultRules(),
		Replacement: DefaultReplacement,
	}
}

func (c *Config) compile() ([]*compiledRule, []*regexp.Regexp, error) {
	rules := make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return nil, nil, fmt.Errorf("%w: rule %d: ID is required", ErrInvalidRule, i)
		}
		if rule.Pattern == "" {
			return nil, nil, fmt.Errorf("%w: rule %s: pattern is required", ErrInvalidRule, rule.ID)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: rule %s: %v", ErrInvalidRule, rule.ID, err)
		}

		cr := &compiledRule{Rule: rule, pattern: pattern}
		for _, kw := range rule.Keywords {
			cr.keywords = append(cr.keywords, regexp.MustCompile("(?i)"+regexp.QuoteMeta(kw)))
		}
		rules = append(rules, cr)
	}

	allow := make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, p := range c.AllowList {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: allow_list %d: %v", ErrInvalidRule, i, err)
		}
		allow = append(allow, re)
	}
	return rules, allow, nil
}
