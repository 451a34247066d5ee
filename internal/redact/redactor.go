package redact

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/zricethezav/gitleaks/v8/detect"
	"go.uber.org/zap"
)

// RuleGitleaks prefixes the rule IDs of gitleaks findings.
const RuleGitleaks = "gitleaks"

// Redactor masks sensitive spans in extracted values. Safe for concurrent use.
type Redactor struct {
	enabled     bool
	replacement string
	rules       []*compiledRule
	allow       []*regexp.Regexp
	logger      *logging.Logger

	// gitleaks detectors keep per-scan state, so scans are serialized.
	mu       sync.Mutex
	detector *detect.Detector
}

// span is a byte range to replace.
type span struct {
	start, end int
	ruleID     string
}

// New compiles cfg into a Redactor. A nil cfg uses DefaultConfig.
func New(cfg *Config, logger *logging.Logger) (*Redactor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	rules, allow, err := cfg.compile()
	if err != nil {
		return nil, err
	}

	r := &Redactor{
		enabled:     cfg.Enabled,
		replacement: cfg.Replacement,
		rules:       rules,
		allow:       allow,
		logger:      logger.Named("redact"),
	}
	if r.replacement == "" {
		r.replacement = DefaultReplacement
	}
	if cfg.Enabled && cfg.Gitleaks {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("loading gitleaks rules: %w", err)
		}
		r.detector = d
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg *Config, logger *logging.Logger) *Redactor {
	r, err := New(cfg, logger)
	if err != nil {
		panic(err)
	}
	return r
}

// Enabled reports whether values are redacted.
func (r *Redactor) Enabled() bool { return r.enabled }

// Redact returns value with sensitive spans replaced. Only the field name and
// matched rule IDs are logged.
func (r *Redactor) Redact(ctx context.Context, field, value string) string {
	res := r.Scan(field, value)
	if res.HasFindings() {
		r.logger.Debug(ctx, "value redacted",
			zap.String("field", field),
			zap.Int("findings", len(res.Findings)),
			zap.Strings("rules", ruleIDs(res.ByRule)))
	}
	return res.Redacted
}

// Scan finds and replaces sensitive spans in value.
func (r *Redactor) Scan(field, value string) *Result {
	res := &Result{Redacted: value, ByRule: map[string]int{}}
	if !r.enabled || value == "" {
		return res
	}

	var spans []span
	for _, rule := range r.rules {
		if !rule.applies(value) {
			continue
		}
		for _, m := range rule.pattern.FindAllStringSubmatchIndex(value, -1) {
			start, end := m[0], m[1]
			if len(m) >= 4 && m[2] >= 0 {
				start, end = m[2], m[3]
			}
			if rule.Luhn && !luhnValid(value[start:end]) {
				continue
			}
			if r.allowed(value[start:end]) {
				continue
			}
			spans = append(spans, span{start: start, end: end, ruleID: rule.ID})
		}
	}
	spans = append(spans, r.gitleaks(value)...)

	for _, s := range spans {
		res.Findings = append(res.Findings, Finding{RuleID: s.ruleID, Field: field, Start: s.start, End: s.end})
		res.ByRule[s.ruleID]++
	}
	if len(spans) > 0 {
		res.Redacted = r.apply(value, mergeSpans(spans))
	}
	return res
}

func (r *Redactor) gitleaks(value string) []span {
	if r.detector == nil {
		return nil
	}
	r.mu.Lock()
	findings := r.detector.DetectString(value)
	r.mu.Unlock()

	var spans []span
	for _, f := range findings {
		if f.Secret == "" || r.allowed(f.Secret) {
			continue
		}
		for off := 0; ; {
			i := strings.Index(value[off:], f.Secret)
			if i < 0 {
				break
			}
			start := off + i
			spans = append(spans, span{start: start, end: start + len(f.Secret), ruleID: RuleGitleaks + ":" + f.RuleID})
			off = start + len(f.Secret)
		}
	}
	return spans
}

func (r *Redactor) allowed(match string) bool {
	for _, re := range r.allow {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func (r *Redactor) apply(value string, merged []span) string {
	var b strings.Builder
	last := 0
	for _, s := range merged {
		b.WriteString(value[last:s.start])
		b.WriteString(r.replacement)
		last = s.end
	}
	b.WriteString(value[last:])
	return b.String()
}

func (c *compiledRule) applies(value string) bool {
	if len(c.keywords) == 0 {
		return true
	}
	for _, kw := range c.keywords {
		if kw.MatchString(value) {
			return true
		}
	}
	return false
}

// mergeSpans sorts spans and merges overlapping or touching ones.
func mergeSpans(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func ruleIDs(byRule map[string]int) []string {
	ids := make([]string, 0, len(byRule))
	for id := range byRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NoopRedactor leaves every value unchanged.
type NoopRedactor struct{}

// Redact returns value.
func (NoopRedactor) Redact(_ context.Context, _, value string) string { return value }
