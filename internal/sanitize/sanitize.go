package sanitize

import (
	"regexp"
	"strings"
)

// blockedTags are the elements removed from ticket text, with their content
// when the closing tag is present.
var blockedTags = []string{"script", "iframe", "object", "embed", "style", "frameset", "frame", "applet"}

var (
	pairedTagPatterns = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(blockedTags))
		for _, tag := range blockedTags {
			out = append(out, regexp.MustCompile(
				`(?is)<\s*`+tag+`\b[^>]*>.*?<\s*/\s*`+tag+`\s*>`))
		}
		return out
	}()

	// loneTagPattern catches open or close tags left without a partner. The
	// tag body stops at the next angle bracket so a missing '>' cannot swallow
	// the rest of the ticket.
	loneTagPattern = regexp.MustCompile(
		`(?i)<\s*/?\s*(?:` + strings.Join(blockedTags, "|") + `)\b[^<>]*>?`)

	javascriptURIPattern = regexp.MustCompile(`(?i)javascript\s*:`)

	eventHandlerPattern = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// Sanitizer strips script-like constructs and bounds input length.
// The zero value is not usable; call New.
type Sanitizer struct {
	maxLen int
}

// New returns a Sanitizer truncating to maxLen characters.
// A maxLen <= 0 uses DefaultMaxInputLength.
func New(maxLen int) *Sanitizer {
	if maxLen <= 0 {
		maxLen = DefaultMaxInputLength
	}
	return &Sanitizer{maxLen: maxLen}
}

// MaxLength returns the truncation limit in characters.
func (s *Sanitizer) MaxLength() int {
	return s.maxLen
}

// Sanitize removes blocked tags, javascript: prefixes and inline event
// handler attributes, then truncates to the maximum length.
//
// The result is never longer than the input, and Sanitize(Sanitize(x)) equals
// Sanitize(x).
func (s *Sanitizer) Sanitize(text string) string {
	out := strip(text)
	if t := truncateRunes(out, s.maxLen); t != out {
		// Cutting can leave a fragment like "<script" at the new end. Removing
		// it makes the result shorter than the limit.
		out = strip(t)
	}
	return out
}

// strip applies every removal until the text stops changing. A pass that
// changes the text shortens it, so the loop ends.
func strip(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripOnce(text string) string {
	for _, re := range pairedTagPatterns {
		text = re.ReplaceAllString(text, "")
	}
	text = loneTagPattern.ReplaceAllString(text, "")
	text = javascriptURIPattern.ReplaceAllString(text, "")
	text = eventHandlerPattern.ReplaceAllString(text, "")
	return text
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
