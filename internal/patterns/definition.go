package patterns

// FieldPattern is one named extraction rule.
type FieldPattern struct {
	// Pattern is an RE2 expression.
	Pattern string `toml:"pattern" json:"pattern"`

	// Group is the capture group holding the value (default 1).
	Group int `toml:"group" json:"group,omitempty"`

	// Multi marks a pattern intended for repeated matching. Extracting all
	// matches from a non-Multi pattern yields at most one value.
	Multi bool `toml:"multi" json:"multi,omitempty"`
}

// KeywordRule maps a reason code to the lowercase substrings that imply it.
type KeywordRule struct {
	Code     string   `toml:"code" json:"code"`
	Reason   string   `toml:"reason" json:"reason"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// TemplateField pairs an output label with the field key it renders.
type TemplateField struct {
	Label string `toml:"label" json:"label"`
	Field string `toml:"field" json:"field"`
}

// Templates holds the output template of each ticket type.
type Templates struct {
	Phone      []TemplateField `toml:"phone" json:"phone"`
	Escalation []TemplateField `toml:"escalation" json:"escalation"`
}

// Strings holds the fixed phrases substituted into the output.
type Strings struct {
	// Placeholder replaces any field that could not be extracted.
	Placeholder string `toml:"placeholder" json:"placeholder"`

	// WorkingFromHome is the building value for a "yes" work-from-home answer.
	WorkingFromHome string `toml:"working_from_home" json:"working_from_home"`

	// BuildingUnknown asks the agent to look the building up manually.
	BuildingUnknown string `toml:"building_unknown" json:"building_unknown"`

	// ReasonPrefix precedes problem details used as an escalation reason.
	ReasonPrefix string `toml:"reason_prefix" json:"reason_prefix"`

	// ReasonUnknown is the reason when nothing else applies.
	ReasonUnknown string `toml:"reason_unknown" json:"reason_unknown"`
}

// Definition is the uncompiled rule table.
type Definition struct {
	Strings

	// SiteCodePattern decides whether a people-record site code may stand in
	// for a missing agency.
	SiteCodePattern string `toml:"site_code_pattern" json:"site_code_pattern"`

	Phone        map[string]FieldPattern `toml:"phone" json:"phone"`
	Escalation   map[string]FieldPattern `toml:"escalation" json:"escalation"`
	KeywordRules []KeywordRule           `toml:"keyword_rules" json:"keyword_rules"`
	Templates    Templates               `toml:"templates" json:"templates"`
}

// Clone returns a deep copy so overrides never touch the source.
func (d Definition) Clone() Definition {
	out := d
	out.Phone = cloneRules(d.Phone)
	out.Escalation = cloneRules(d.Escalation)
	out.KeywordRules = make([]KeywordRule, len(d.KeywordRules))
	for i, kr := range d.KeywordRules {
		kr.Keywords = append([]string(nil), kr.Keywords...)
		out.KeywordRules[i] = kr
	}
	out.Templates.Phone = append([]TemplateField(nil), d.Templates.Phone...)
	out.Templates.Escalation = append([]TemplateField(nil), d.Templates.Escalation...)
	return out
}

func cloneRules(in map[string]FieldPattern) map[string]FieldPattern {
	out := make(map[string]FieldPattern, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
