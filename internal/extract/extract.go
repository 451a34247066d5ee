// Package extract applies compiled rules to ticket text.
//
// The primitives never panic and never return errors: a failed or missing
// match is the empty value. Anything unexpected is logged at warn level and
// treated as no match.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Extractor runs single and repeated matches.
type Extractor struct {
	logger *logging.Logger
}

// New returns an Extractor. A nil logger discards match failures.
func New(logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{logger: logger.Named("extract")}
}

// One returns the trimmed text of group in the first match of re, or "".
func (e *Extractor) One(ctx context.Context, re *regexp.Regexp, text string, group int) (value string) {
	defer e.recover(ctx, re, &value)

	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if group < 0 || group >= len(m) {
		e.logger.Warn(ctx, "capture group out of range",
			zap.String("pattern", re.String()),
			zap.Int("group", group),
			zap.Int("groups", len(m)-1))
		return ""
	}
	return strings.TrimSpace(m[group])
}

// All returns the trimmed text of group for every match of re in order of
// occurrence. When multi is false at most one value is returned.
func (e *Extractor) All(ctx context.Context, re *regexp.Regexp, text string, group int, multi bool) (values []string) {
	defer e.recover(ctx, re, &values)

	n := -1
	if !multi {
		n = 1
	}
	matches := re.FindAllStringSubmatch(text, n)
	if len(matches) == 0 {
		return []string{}
	}

	values = make([]string, 0, len(matches))
	for _, m := range matches {
		if group < 0 || group >= len(m) {
			e.logger.Warn(ctx, "capture group out of range",
				zap.String("pattern", re.String()),
				zap.Int("group", group))
			return []string{}
		}
		values = append(values, strings.TrimSpace(m[group]))
	}
	return values
}

// Rule is One driven by a compiled table rule.
func (e *Extractor) Rule(ctx context.Context, rule *patterns.Rule, text string) string {
	if rule == nil {
		return ""
	}
	return e.One(ctx, rule.Regexp(), text, rule.Group())
}

// RuleAll is All driven by a compiled table rule.
func (e *Extractor) RuleAll(ctx context.Context, rule *patterns.Rule, text string) []string {
	if rule == nil {
		return []string{}
	}
	return e.All(ctx, rule.Regexp(), text, rule.Group(), rule.Multi())
}

// recover converts a panic during matching into the zero result.
func (e *Extractor) recover(ctx context.Context, re *regexp.Regexp, result any) {
	r := recover()
	if r == nil {
		return
	}
	pattern := "<nil>"
	if re != nil {
		pattern = re.String()
	}
	e.logger.Warn(ctx, "pattern match failed",
		zap.String("pattern", pattern),
		zap.String("panic", fmt.Sprint(r)))

	switch v := result.(type) {
	case *string:
		*v = ""
	case *[]string:
		*v = []string{}
	}
}

// Fold normalizes text for keyword comparison: NFKC, Unicode case folding
// and whitespace runs collapsed to one space.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s) // a Caser is stateful, so one per call
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether text contains any keyword, ignoring case,
// compatibility forms and whitespace differences.
func ContainsAny(text string, keywords []string) bool {
	if text == "" || len(keywords) == 0 {
		return false
	}
	folded := Fold(text)
	for _, kw := range keywords {
		k := Fold(kw)
		if k != "" && strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// FirstMatch returns the index of the first keyword rule matched by text, or -1.
func FirstMatch(text string, rules []patterns.KeywordRule) int {
	if text == "" {
		return -1
	}
	folded := Fold(text)
	for i, r := range rules {
		for _, kw := range r.Keywords {
			if k := Fold(kw); k != "" && strings.Contains(folded, k) {
				return i
			}
		}
	}
	return -1
}
