package patterns

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownKey indicates a rule file contains keys this package does not read.
var ErrUnknownKey = errors.New("unknown key in rule file")

// maxRuleFileSize bounds rule files read from disk.
const maxRuleFileSize = 1024 * 1024

// fileDefinition mirrors Definition with optional scalars so a rule file can
// override any subset of the base.
type fileDefinition struct {
	Placeholder     *string                 `toml:"placeholder"`
	WorkingFromHome *string                 `toml:"working_from_home"`
	BuildingUnknown *string                 `toml:"building_unknown"`
	ReasonPrefix    *string                 `toml:"reason_prefix"`
	ReasonUnknown   *string                 `toml:"reason_unknown"`
	SiteCodePattern *string                 `toml:"site_code_pattern"`
	Phone           map[string]FieldPattern `toml:"phone"`
	Escalation      map[string]FieldPattern `toml:"escalation"`
	KeywordRules    []KeywordRule           `toml:"keyword_rules"`
	Templates       struct {
		Phone      []TemplateField `toml:"phone"`
		Escalation []TemplateField `toml:"escalation"`
	} `toml:"templates"`
}

// LoadFile reads a TOML rule file and merges it over base.
//
// Scalars and individual rule keys replace their base value. Keyword rules and
// templates, when present, replace the base list whole. The result is not
// compiled; pass it to Compile.
func LoadFile(path string, base Definition) (Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Definition{}, fmt.Errorf("stat rule file: %w", err)
	}
	if info.Size() > maxRuleFileSize {
		return Definition{}, fmt.Errorf("rule file too large: %d bytes (max %d)", info.Size(), maxRuleFileSize)
	}

	var fd fileDefinition
	md, err := toml.DecodeFile(path, &fd)
	if err != nil {
		return Definition{}, fmt.Errorf("decode rule file %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Definition{}, err
	}

	return fd.mergeInto(base), nil
}

// Decode parses TOML rule text and merges it over base. It behaves like
// LoadFile without touching the filesystem.
func Decode(data string, base Definition) (Definition, error) {
	var fd fileDefinition
	md, err := toml.Decode(data, &fd)
	if err != nil {
		return Definition{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Definition{}, err
	}
	return fd.mergeInto(base), nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
}

func (fd fileDefinition) mergeInto(base Definition) Definition {
	out := base.Clone()

	setString(&out.Placeholder, fd.Placeholder)
	setString(&out.WorkingFromHome, fd.WorkingFromHome)
	setString(&out.BuildingUnknown, fd.BuildingUnknown)
	setString(&out.ReasonPrefix, fd.ReasonPrefix)
	setString(&out.ReasonUnknown, fd.ReasonUnknown)
	setString(&out.SiteCodePattern, fd.SiteCodePattern)

	for k, v := range fd.Phone {
		out.Phone[k] = v
	}
	for k, v := range fd.Escalation {
		out.Escalation[k] = v
	}
	if len(fd.KeywordRules) > 0 {
		out.KeywordRules = fd.KeywordRules
	}
	if len(fd.Templates.Phone) > 0 {
		out.Templates.Phone = fd.Templates.Phone
	}
	if len(fd.Templates.Escalation) > 0 {
		out.Templates.Escalation = fd.Templates.Escalation
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
