package redact

// Rule IDs of DefaultRules.
const (
	RulePassword   = "password"
	RuleSSN        = "us-ssn"
	RuleCard       = "payment-card"
	RuleBearer     = "bearer-token"
	RuleAWSKey     = "aws-access-key-id"
	RuleGitHub     = "github-token"
	RulePrivateKey = "private-key"
)

// DefaultRules returns the rules for credentials and identifiers that users
// paste into help-desk tickets. Phone numbers and email addresses are ticket
// fields and are left alone.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          RulePassword,
			Description: "Password or PIN",
			Pattern:     `(?i)\b(?:password|passwd|pwd|passcode|pin)\b[ \t]*[:=][ \t]*(\S+)`,
			Keywords:    []string{"pass", "pwd", "pin"},
		},
		{
			ID:          RuleSSN,
			Description: "US Social Security Number",
			Pattern:     `\b\d{3}-\d{2}-\d{4}\b`,
		},
		{
			ID:          RuleCard,
			Description: "Payment card number",
			Pattern:     `\b(?:\d[ -]?){12,18}\d\b`,
			Luhn:        true,
		},
		{
			ID:          RuleBearer,
			Description: "Bearer token",
			Pattern:     `(?i)\bbearer[ \t]+([A-Za-z0-9\-._~+/]{8,}=*)`,
			Keywords:    []string{"bearer"},
		},
		{
			ID:          RuleAWSKey,
			Description: "AWS Access Key ID",
			Pattern:     `\b(?:A3T[A-Z0-9]|AKIA|ASIA)[A-Z0-9]{16}\b`,
		},
		{
			ID:          RuleGitHub,
			Description: "GitHub token",
			Pattern:     `\b(?:gh[pousr]_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,})\b`,
		},
		{
			ID:          RulePrivateKey,
			Description: "Private key header",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
		},
	}
}

// luhnValid reports whether the digits in s pass the Luhn checksum.
func luhnValid(s string) bool {
	sum, n := 0, 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
		n++
	}
	return n >= 13 && sum%10 == 0
}
