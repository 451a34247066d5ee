// Package format renders extracted fields as copy-paste ticket text.
package format

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
)

// lineBreaks matches any run of line terminators, with surrounding blanks.
var lineBreaks = regexp.MustCompile(`[ \t]*[\r\n\v\f\x{0085}\x{2028}\x{2029}]+[ \t]*`)

// Lines renders one "Label: value" line per template entry, in template
// order, joined by "\n" with no trailing newline. Missing or blank values are
// replaced by placeholder. Line breaks inside a value collapse to one space
// so the output always has exactly len(template) lines.
func Lines(template []patterns.TemplateField, values map[string]string, placeholder string) string {
	var b strings.Builder
	for i, tf := range template {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(tf.Label)
		b.WriteString(": ")
		b.WriteString(Value(values[tf.Field], placeholder))
	}
	return b.String()
}

// Value returns v flattened to a single line, or placeholder when v is blank.
func Value(v, placeholder string) string {
	v = strings.TrimSpace(lineBreaks.ReplaceAllString(v, " "))
	if v == "" {
		return placeholder
	}
	return v
}

// Labels returns the labels of template in order.
func Labels(template []patterns.TemplateField) []string {
	out := make([]string, len(template))
	for i, tf := range template {
		out[i] = tf.Label
	}
	return out
}
