package extract

import (
	"context"
	"regexp"
	"testing"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var phoneRe = regexp.MustCompile(`(?im)^Phone:[ \t]*(.+)$`)

func TestOne(t *testing.T) {
	e := New(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		text  string
		group int
		want  string
	}{
		{"first match trimmed", "Phone:  555-1234  \nPhone: 555-9999", 1, "555-1234"},
		{"no match", "Email: a@b.co", 1, ""},
		{"empty text", "", 1, ""},
		{"whole match", "Phone: 1", 0, "Phone: 1"},
		{"group out of range", "Phone: 1", 4, ""},
		{"negative group", "Phone: 1", -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.One(ctx, phoneRe, tt.text, tt.group))
		})
	}
}

func TestOne_NilPatternRecovered(t *testing.T) {
	tl := logging.NewTestLogger()
	e := New(tl.Logger)

	var got string
	assert.NotPanics(t, func() {
		got = e.One(context.Background(), nil, "Phone: 1", 1)
	})
	assert.Equal(t, "", got)
	tl.AssertLogged(t, zapcore.WarnLevel, "pattern match failed")
}

func TestAll(t *testing.T) {
	e := New(nil)
	ctx := context.Background()
	text := "Phone: 555-1234\nName: x\nPhone: 555-9999\n"

	assert.Equal(t, []string{"555-1234", "555-9999"}, e.All(ctx, phoneRe, text, 1, true))
	assert.Equal(t, []string{"555-1234"}, e.All(ctx, phoneRe, text, 1, false), "single pass when not multi")

	got := e.All(ctx, phoneRe, "nothing here", 1, true)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, e.All(ctx, phoneRe, text, 7, true))
	assert.Empty(t, e.All(ctx, nil, text, 1, true))
}

func TestRule(t *testing.T) {
	e := New(nil)
	ctx := context.Background()
	table := patterns.Default()

	text := "Phone: 555-123-4567\nPhone: 555-999-0000\nAgency: USDA\n"
	assert.Equal(t, "USDA", e.Rule(ctx, table.PhoneRule(patterns.RuleAgency), text))
	assert.Equal(t, []string{"555-123-4567", "555-999-0000"},
		e.RuleAll(ctx, table.PhoneRule(patterns.RulePhoneNumbers), text))

	assert.Equal(t, "", e.Rule(ctx, nil, text))
	assert.Empty(t, e.RuleAll(ctx, nil, text))
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"case insensitive", "User needs ADMIN Privileges today", []string{"admin privileges"}, true},
		{"whitespace collapsed", "needs admin\n   privileges", []string{"admin privileges"}, true},
		{"fullwidth folded", "ＣＲＡＳＨ on start", []string{"crash"}, true},
		{"stem", "app keeps freezing", []string{"freez"}, true},
		{"absent", "printer offline", []string{"crash", "spam"}, false},
		{"empty text", "", []string{"crash"}, false},
		{"no keywords", "crash", nil, false},
		{"blank keyword ignored", "anything", []string{"  "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsAny(tt.text, tt.keywords))
		})
	}
}

func TestFirstMatch_Priority(t *testing.T) {
	rules := patterns.DefaultKeywordRules()

	// Both admin and crash keywords present: admin rule comes first.
	i := FirstMatch("App crashes when I try to install software", rules)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, patterns.ReasonCodeAdminPrivileges, rules[i].Code)

	i = FirstMatch("getting robocalls all day", rules)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, patterns.ReasonCodeSpamCalls, rules[i].Code)

	assert.Equal(t, -1, FirstMatch("printer is offline", rules))
	assert.Equal(t, -1, FirstMatch("", rules))
}
