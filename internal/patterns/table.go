package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Compile errors.
var (
	// ErrMissingRule indicates a rule key the processors depend on is absent.
	ErrMissingRule = errors.New("missing rule")

	// ErrInvalidPattern indicates a rule expression failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrTemplateMismatch indicates a template does not cover exactly the
	// fields its processor writes.
	ErrTemplateMismatch = errors.New("template does not match field set")

	// ErrInvalidKeywordRule indicates a keyword rule without code, reason or keywords.
	ErrInvalidKeywordRule = errors.New("invalid keyword rule")
)

// Rule is a compiled FieldPattern.
type Rule struct {
	key   string
	re    *regexp.Regexp
	group int
	multi bool
}

// Key returns the rule key.
func (r *Rule) Key() string { return r.key }

// Regexp returns the compiled expression.
func (r *Rule) Regexp() *regexp.Regexp { return r.re }

// Group returns the capture group holding the value.
func (r *Rule) Group() int { return r.group }

// Multi reports whether the rule is meant for repeated matching.
func (r *Rule) Multi() bool { return r.multi }

// Table is a compiled, read-only Definition. Safe for concurrent use.
type Table struct {
	strings      Strings
	siteCode     *regexp.Regexp
	phone        map[string]*Rule
	escalation   map[string]*Rule
	keywordRules []KeywordRule
	templates    Templates
}

// Compile validates def and compiles every expression.
//
// Checks applied:
//   - every rule key used by the processors is present and compiles
//   - capture groups exist in their expression
//   - keyword rules have a code, a reason and at least one keyword
//   - each template covers exactly its processor's field set, with no
//     duplicate fields and no empty labels
//   - placeholder strings are non-empty
func Compile(def Definition) (*Table, error) {
	def = def.Clone()

	if err := validateStrings(def.Strings); err != nil {
		return nil, err
	}

	siteCode, err := regexp.Compile(def.SiteCodePattern)
	if err != nil || def.SiteCodePattern == "" {
		return nil, fmt.Errorf("%w: site_code_pattern: %v", ErrInvalidPattern, err)
	}

	phone, err := compileSet("phone", def.Phone, phoneRuleKeys)
	if err != nil {
		return nil, err
	}
	escalation, err := compileSet("escalation", def.Escalation, escalationRuleKeys)
	if err != nil {
		return nil, err
	}
	if r := escalation[RuleNameReversed]; r.re.NumSubexp() < FirstNameGroup {
		return nil, fmt.Errorf("%w: escalation.%s needs last and first name groups", ErrInvalidPattern, RuleNameReversed)
	}

	for i, kr := range def.KeywordRules {
		if kr.Code == "" || kr.Reason == "" || len(kr.Keywords) == 0 {
			return nil, fmt.Errorf("%w: keyword_rules[%d]", ErrInvalidKeywordRule, i)
		}
		for j, kw := range kr.Keywords {
			kr.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	if err := validateTemplate("phone", def.Templates.Phone, PhoneFields); err != nil {
		return nil, err
	}
	if err := validateTemplate("escalation", def.Templates.Escalation, EscalationFields); err != nil {
		return nil, err
	}

	return &Table{
		strings:      def.Strings,
		siteCode:     siteCode,
		phone:        phone,
		escalation:   escalation,
		keywordRules: def.KeywordRules,
		templates:    def.Templates,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(def Definition) *Table {
	t, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return t
}

// Default compiles DefaultDefinition.
func Default() *Table {
	return MustCompile(DefaultDefinition())
}

func compileSet(set string, rules map[string]FieldPattern, required []string) (map[string]*Rule, error) {
	for _, key := range required {
		if _, ok := rules[key]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingRule, set, key)
		}
	}

	compiled := make(map[string]*Rule, len(rules))
	for key, fp := range rules {
		if fp.Pattern == "" {
			return nil, fmt.Errorf("%w: %s.%s: pattern is required", ErrInvalidPattern, set, key)
		}
		re, err := regexp.Compile(fp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidPattern, set, key, err)
		}
		group := fp.Group
		if group == 0 {
			group = 1
		}
		if group < 0 || group > re.NumSubexp() {
			return nil, fmt.Errorf("%w: %s.%s: group %d out of range (pattern has %d)",
				ErrInvalidPattern, set, key, group, re.NumSubexp())
		}
		compiled[key] = &Rule{key: key, re: re, group: group, multi: fp.Multi}
	}
	return compiled, nil
}

func validateStrings(s Strings) error {
	fields := map[string]string{
		"placeholder":       s.Placeholder,
		"working_from_home": s.WorkingFromHome,
		"building_unknown":  s.BuildingUnknown,
		"reason_prefix":     s.ReasonPrefix,
		"reason_unknown":    s.ReasonUnknown,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}
	return nil
}

func validateTemplate(set string, tmpl []TemplateField, fields []string) error {
	if len(tmpl) != len(fields) {
		return fmt.Errorf("%w: %s template has %d entries, processor writes %d fields",
			ErrTemplateMismatch, set, len(tmpl), len(fields))
	}
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	seen := make(map[string]bool, len(tmpl))
	for i, tf := range tmpl {
		if strings.TrimSpace(tf.Label) == "" {
			return fmt.Errorf("%w: %s template entry %d has an empty label", ErrTemplateMismatch, set, i)
		}
		if !want[tf.Field] {
			return fmt.Errorf("%w: %s template references unknown field %q", ErrTemplateMismatch, set, tf.Field)
		}
		if seen[tf.Field] {
			return fmt.Errorf("%w: %s template lists field %q twice", ErrTemplateMismatch, set, tf.Field)
		}
		seen[tf.Field] = true
	}
	return nil
}

// Strings returns the placeholder phrases.
func (t *Table) Strings() Strings { return t.strings }

// PhoneRule returns the phone-issue rule for key, or nil.
func (t *Table) PhoneRule(key string) *Rule { return t.phone[key] }

// EscalationRule returns the escalation rule for key, or nil.
func (t *Table) EscalationRule(key string) *Rule { return t.escalation[key] }

// ValidSiteCode reports whether a people-record site code may be used as an agency.
func (t *Table) ValidSiteCode(code string) bool {
	return t.siteCode.MatchString(code)
}

// KeywordRules returns a copy of the reason inference rules in priority order.
func (t *Table) KeywordRules() []KeywordRule {
	out := make([]KeywordRule, len(t.keywordRules))
	for i, kr := range t.keywordRules {
		kr.Keywords = append([]string(nil), kr.Keywords...)
		out[i] = kr
	}
	return out
}

// PhoneTemplate returns a copy of the phone-issue template.
func (t *Table) PhoneTemplate() []TemplateField {
	return append([]TemplateField(nil), t.templates.Phone...)
}

// EscalationTemplate returns a copy of the escalation template.
func (t *Table) EscalationTemplate() []TemplateField {
	return append([]TemplateField(nil), t.templates.Escalation...)
}

// RuleKeys returns the sorted rule keys of a set ("phone" or "escalation").
func (t *Table) RuleKeys(set string) []string {
	var rules map[string]*Rule
	switch set {
	case "phone":
		rules = t.phone
	case "escalation":
		rules = t.escalation
	}
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
