package processor

import (
	"context"
	"net"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/cectoolkit/internal/extract"
	"github.com/fyrsmithlabs/cectoolkit/internal/format"
	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
	"github.com/fyrsmithlabs/cectoolkit/internal/sanitize"
	"go.uber.org/zap"
)

// KindEscalation names escalation tickets in logs, metrics and events.
const KindEscalation = "escalation"

// Error prefixes telling which input block failed validation.
const (
	PeopleRecordPrefix = "people record: "
	NotesPrefix        = "notes: "
)

var (
	wfhYes = regexp.MustCompile(`(?i)^yes\b`)
	wfhNo  = regexp.MustCompile(`(?i)^no\b[\s,.:;!-]*`)
)

// EscalationProcessor extracts the fields of an escalation ticket from a
// people record and free-text notes. Safe for concurrent use.
type EscalationProcessor struct {
	table *patterns.Table
	opts  options
}

// NewEscalationProcessor returns a processor reading rules from table.
func NewEscalationProcessor(table *patterns.Table, opts ...Option) *EscalationProcessor {
	if table == nil {
		table = patterns.Default()
	}
	o := buildOptions(opts)
	o.logger = o.logger.Named("processor.escalation")
	return &EscalationProcessor{table: table, opts: o}
}

// Process validates both blocks, extracts every escalation field and formats
// them. When either block is invalid the errors of both are reported.
func (p *EscalationProcessor) Process(ctx context.Context, people, notes any) (res Result) {
	ctx = logging.WithTicketKind(ctx, KindEscalation)
	defer recoverUnexpected(ctx, p.opts.logger, &res)

	var errs []string
	if v := sanitize.ValidateAny(people, p.opts.maxLen); !v.Valid {
		for _, e := range v.Errors {
			errs = append(errs, PeopleRecordPrefix+e)
		}
	}
	if v := sanitize.ValidateAny(notes, p.opts.maxLen); !v.Valid {
		for _, e := range v.Errors {
			errs = append(errs, NotesPrefix+e)
		}
	}
	if len(errs) > 0 {
		p.opts.logger.Info(ctx, "ticket rejected", zap.Strings("errors", errs))
		return validationFailure(errs)
	}

	peopleText := p.opts.sanitizer.Sanitize(people.(string))
	notesText := p.opts.sanitizer.Sanitize(notes.(string))

	fields, code := p.Extract(ctx, peopleText, notesText)
	p.opts.redact(ctx, fields)
	logMissing(ctx, p.opts.logger, fields, patterns.EscalationFields)
	p.opts.logger.Debug(ctx, "escalation reason decided", zap.String("reason_code", code))

	return Result{
		Success:         true,
		ExtractedFields: fields,
		FormattedText:   format.Lines(p.table.EscalationTemplate(), fields, p.table.Strings().Placeholder),
		ReasonCode:      code,
	}
}

// Extract applies the escalation rules to already sanitized blocks and
// returns the fields with the code telling how the reason was decided.
func (p *EscalationProcessor) Extract(ctx context.Context, people, notes string) (Fields, string) {
	e := p.opts.extractor
	rule := p.table.EscalationRule
	f := newFields(patterns.EscalationFields)

	f[patterns.FieldName] = firstNonEmpty(
		p.reversedName(ctx, people),
		e.Rule(ctx, rule(patterns.RuleName), people),
		e.Rule(ctx, rule(patterns.RuleAccountName), notes),
	)
	f[patterns.FieldPhone] = firstNonEmpty(
		e.Rule(ctx, rule(patterns.RulePeoplePhone), people),
		e.Rule(ctx, rule(patterns.RuleBestPhone), notes),
	)
	f[patterns.FieldEmail] = e.Rule(ctx, rule(patterns.RuleEmail), people)
	f[patterns.FieldAgency] = firstNonEmpty(
		e.Rule(ctx, rule(patterns.RuleAccountAgency), notes),
		e.Rule(ctx, rule(patterns.RuleAgency), notes),
		p.siteCode(ctx, people),
	)
	f[patterns.FieldBuilding] = p.building(ctx, people, notes)

	f[patterns.FieldWorkHours] = e.Rule(ctx, rule(patterns.RuleWorkHours), notes)
	f[patterns.FieldRoomCube] = e.Rule(ctx, rule(patterns.RuleRoomCube), notes)
	f[patterns.FieldComputerName] = e.Rule(ctx, rule(patterns.RuleComputerName), notes)
	f[patterns.FieldIPAddress] = e.Rule(ctx, rule(patterns.RuleIPAddress), notes)
	f[patterns.FieldCriticalDeadline] = e.Rule(ctx, rule(patterns.RuleCriticalDeadline), notes)
	f[patterns.FieldProblemDetails] = e.Rule(ctx, rule(patterns.RuleProblemDetails), notes)
	f[patterns.FieldTroubleshootingSteps] = e.Rule(ctx, rule(patterns.RuleTroubleshootingSteps), notes)

	reason, code := p.reason(ctx, notes, f[patterns.FieldProblemDetails], f[patterns.FieldTroubleshootingSteps])
	f[patterns.FieldEscalationReason] = reason
	return f, code
}

// reversedName turns "Last, First" into "First Last".
func (p *EscalationProcessor) reversedName(ctx context.Context, people string) string {
	r := p.table.EscalationRule(patterns.RuleNameReversed)
	if r == nil {
		return ""
	}
	e := p.opts.extractor
	last := e.One(ctx, r.Regexp(), people, patterns.LastNameGroup)
	first := e.One(ctx, r.Regexp(), people, patterns.FirstNameGroup)
	if last == "" || first == "" {
		return ""
	}
	return first + " " + last
}

// siteCode returns the people-record site code when it is usable as an agency.
func (p *EscalationProcessor) siteCode(ctx context.Context, people string) string {
	code := p.opts.extractor.Rule(ctx, p.table.EscalationRule(patterns.RuleSite), people)
	if code == "" || !p.table.ValidSiteCode(code) {
		return ""
	}
	return code
}

func (p *EscalationProcessor) building(ctx context.Context, people, notes string) string {
	e := p.opts.extractor
	rule := p.table.EscalationRule

	if answer := e.Rule(ctx, rule(patterns.RuleWorkFromHome), notes); answer != "" {
		if b, ok := p.workFromHome(answer); ok {
			return b
		}
	}
	if addr := e.Rule(ctx, rule(patterns.RuleNotesAddress), notes); addr != "" && !isIP(addr) {
		return addr
	}
	if addr := e.Rule(ctx, rule(patterns.RulePeopleAddress), people); addr != "" && !isIP(addr) {
		return addr
	}
	return p.table.Strings().BuildingUnknown
}

// workFromHome interprets the answer to the home-or-office question. Answers
// other than yes or no with a usable remainder are not decisive.
func (p *EscalationProcessor) workFromHome(answer string) (string, bool) {
	if wfhYes.MatchString(answer) {
		return p.table.Strings().WorkingFromHome, true
	}
	if loc := wfhNo.FindStringIndex(answer); loc != nil {
		rest := strings.TrimSpace(answer[loc[1]:])
		if rest != "" && !isIP(rest) {
			return rest, true
		}
	}
	return "", false
}

func (p *EscalationProcessor) reason(ctx context.Context, notes, details, steps string) (string, string) {
	s := p.table.Strings()

	explicit := p.opts.extractor.Rule(ctx, p.table.EscalationRule(patterns.RuleReason), notes)
	if explicit != "" && !strings.EqualFold(explicit, s.Placeholder) {
		return explicit, patterns.ReasonCodeExplicit
	}

	rules := p.table.KeywordRules()
	if i := extract.FirstMatch(details+" "+steps, rules); i >= 0 {
		return rules[i].Reason, rules[i].Code
	}
	if strings.TrimSpace(details) != "" {
		return s.ReasonPrefix + details, patterns.ReasonCodeProblemDetails
	}
	return s.ReasonUnknown, patterns.ReasonCodeUnknown
}

func isIP(s string) bool {
	return net.ParseIP(strings.TrimSpace(s)) != nil
}
