package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overrideRules = `
placeholder = "Not supplied"

[phone.agency]
pattern = '(?im)^[ \t]*Dept[ \t]*:[ \t]*(.+)$'

[[keyword_rules]]
code = "vpn"
reason = "VPN connectivity failure"
keywords = ["vpn"]
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFile_Override(t *testing.T) {
	path := writeRules(t, overrideRules)

	def, err := LoadFile(path, DefaultDefinition())
	require.NoError(t, err)

	assert.Equal(t, "Not supplied", def.Placeholder)
	assert.Equal(t, defaultWorkingFromHome, def.WorkingFromHome, "unset scalars keep base value")
	assert.Contains(t, def.Phone[RuleAgency].Pattern, "Dept")
	assert.Equal(t, DefaultPhoneRules()[RuleEmail], def.Phone[RuleEmail], "other rules untouched")
	require.Len(t, def.KeywordRules, 1)
	assert.Equal(t, "vpn", def.KeywordRules[0].Code)
	assert.Len(t, def.Templates.Phone, 9)

	table, err := Compile(def)
	require.NoError(t, err)
	m := table.PhoneRule(RuleAgency).Regexp().FindStringSubmatch("Dept: Treasury")
	require.NotNil(t, m)
	assert.Equal(t, "Treasury", m[1])
}

func TestLoadFile_DoesNotMutateBase(t *testing.T) {
	path := writeRules(t, overrideRules)
	base := DefaultDefinition()

	_, err := LoadFile(path, base)
	require.NoError(t, err)

	assert.Equal(t, defaultPlaceholder, base.Placeholder)
	assert.Equal(t, DefaultPhoneRules()[RuleAgency], base.Phone[RuleAgency])
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"), DefaultDefinition())
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := writeRules(t, "placeholdr = \"typo\"\n")
		_, err := LoadFile(path, DefaultDefinition())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKey)
		assert.Contains(t, err.Error(), "placeholdr")
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeRules(t, "[phone.agency\npattern = 1")
		_, err := LoadFile(path, DefaultDefinition())
		require.Error(t, err)
	})
}

func TestDecode_TemplateReplacedWhole(t *testing.T) {
	rules := `
[[templates.phone]]
label = "Caller"
field = "name"
`
	def, err := Decode(rules, DefaultDefinition())
	require.NoError(t, err)
	require.Len(t, def.Templates.Phone, 1)

	_, err = Compile(def)
	assert.ErrorIs(t, err, ErrTemplateMismatch)
}
